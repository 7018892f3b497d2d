// Command adcctl brings up the ADC service on a board and reports every
// state change it publishes.
//
// Host (simulated converters):
//
//	go run . -board f303-dual -bridge
//	go run . -board bridge-target            # serve the simulated blocks on a serial port
//	go run . -board f301-single -serial /dev/ttyUSB0
//
// STM32F3 (TinyGo):
//
//	tinygo flash -target <stm32f3 board> .
package main

import (
	"context"

	"adcctl-go/bus"
	"adcctl-go/services/adc"
	"adcctl-go/services/bridge"
	"adcctl-go/services/config"
	"adcctl-go/services/heartbeat"
	"adcctl-go/types"
)

func main() {
	bd := board()
	println("== adcctl:", bd.name, "==")

	b := bus.NewBus(64)
	conn := b.NewConnection("main")

	stateSub := conn.Subscribe(bus.T("adc", "state"))
	defer conn.Unsubscribe(stateSub)
	instSub := conn.Subscribe(bus.T("adc", "+", "state"))
	defer conn.Unsubscribe(instSub)
	bridgeSub := conn.Subscribe(bus.T("bridge", "state"))
	defer conn.Unsubscribe(bridgeSub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go adc.Run(ctx, b.NewConnection("adc"), bd.plat)
	if bd.target != nil {
		go bridge.Start(ctx, b.NewConnection("bridge"), bd.target)
	}
	var hb heartbeat.Service
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	// Sections are retained, so services pick them up whenever they subscribe.
	config.NewConfigService().Start(context.WithValue(ctx, config.CtxBoardKey, bd.name), b.NewConnection("config"))

	for {
		select {
		case m := <-stateSub.Channel():
			if s, ok := m.Payload.(types.ADCServiceState); ok {
				println("[main] adc", s.Level, s.Chip, s.Error)
			}
		case m := <-instSub.Channel():
			if s, ok := m.Payload.(types.ADCInstanceState); ok {
				println("[main]", s.ID, s.State, s.Error)
			}
		case m := <-bridgeSub.Channel():
			if s, ok := m.Payload.(types.BridgeState); ok {
				println("[main] bridge", s.Level, s.Status, s.Error)
			}
		}
	}
}
