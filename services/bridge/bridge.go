// services/bridge/bridge.go
package bridge

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"adcctl-go/bus"
	"adcctl-go/drivers/stm32adc/i2cbridge"
	"adcctl-go/errcode"
	"adcctl-go/types"
	"adcctl-go/x/jsonx"

	"tinygo.org/x/drivers"
)

// -----------------------------------------------------------------------------
// Public entry point
// -----------------------------------------------------------------------------

// Start serves register bridge transactions for dev over the link named on
// "config/bridge". dev is normally an i2cbridge.Target exposing the local
// converter blocks. It blocks until ctx is cancelled.
func Start(ctx context.Context, conn *bus.Connection, dev drivers.I2C) {
	s := &Service{
		conn:       conn,
		dev:        &countingDev{dev: dev},
		stateTopic: bus.T("bridge", "state"),
	}
	s.run(ctx)
}

// -----------------------------------------------------------------------------
// Service
// -----------------------------------------------------------------------------

type Service struct {
	conn       *bus.Connection
	dev        *countingDev
	stateTopic bus.Topic

	mu     sync.Mutex
	curRun context.CancelFunc
	wg     sync.WaitGroup
}

// countingDev counts transactions replayed on the local bus.
type countingDev struct {
	dev drivers.I2C
	n   atomic.Uint64
}

func (c *countingDev) Tx(addr uint16, w, r []byte) error {
	c.n.Add(1)
	return c.dev.Tx(addr, w, r)
}

func (s *Service) run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(bus.T("config", "bridge"))
	defer s.conn.Unsubscribe(cfgSub)

	s.publishState("idle", "awaiting_config", nil)

	for {
		select {
		case <-ctx.Done():
			s.stopCurrent()
			return
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				s.publishState("error", "config_subscription_closed", nil)
				return
			}
			var cfg types.BridgeConfig
			if err := jsonx.Decode(msg.Payload, &cfg); err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			s.reconfigure(ctx, cfg)
		}
	}
}

// stopCurrent cancels the running link and waits for it to let go of the
// transport.
func (s *Service) stopCurrent() {
	s.mu.Lock()
	if s.curRun != nil {
		s.curRun()
		s.curRun = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) reconfigure(parent context.Context, cfg types.BridgeConfig) {
	s.stopCurrent()

	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	s.curRun = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLink(ctx, cfg)
	}()
}

// -----------------------------------------------------------------------------
// Link supervision
// -----------------------------------------------------------------------------

func (s *Service) runLink(ctx context.Context, cfg types.BridgeConfig) {
	tr, err := newTransport(cfg.Transport)
	if err != nil {
		s.publishState("error", "transport_init_failed", err)
		return
	}

	backoff := backoffSeq(250*time.Millisecond, 5*time.Second)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rwc, err := tr.Open(ctx)
		if err != nil {
			println("[bridge]", tr.String(), "open failed:", err.Error())
			s.publishState("degraded", "dial_failed_retrying", err)
			if !sleep(ctx, backoff()) {
				return
			}
			continue
		}

		println("[bridge] link up on", tr.String())
		s.publishState("up", "link_established", nil)
		if err := s.serve(ctx, rwc); err != nil {
			println("[bridge] link lost:", err.Error())
			s.publishState("degraded", "link_lost_retrying", err)
			if !sleep(ctx, backoff()) {
				return
			}
			continue
		}
		// Peer closed cleanly: wait for new config.
		s.publishState("idle", "link_closed", nil)
		return
	}
}

// serve replays transactions until the peer closes the stream or ctx ends.
func (s *Service) serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	errCh := make(chan error, 1)
	go func() { errCh <- i2cbridge.ServeLink(rwc, s.dev) }()

	select {
	case <-ctx.Done():
		// The reader exits once the close reaches it.
		_ = rwc.Close()
		return nil
	case err := <-errCh:
		_ = rwc.Close()
		return err
	}
}

// -----------------------------------------------------------------------------
// Transport registry
// -----------------------------------------------------------------------------

// Transport opens the byte stream a link runs on.
type Transport interface {
	Open(ctx context.Context) (io.ReadWriteCloser, error)
	String() string
}

type transportFactory func(types.BridgeTransport) (Transport, error)

var (
	regMu    sync.RWMutex
	registry = map[string]transportFactory{}

	errNoDial = errors.New("serial dialler not available on this build")
)

// RegisterTransport adds a transport type, e.g. a pipe in tests or a UART on
// a TinyGo target.
func RegisterTransport(name string, f transportFactory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = f
}

func newTransport(cfg types.BridgeTransport) (Transport, error) {
	regMu.RLock()
	f, ok := registry[cfg.Type]
	regMu.RUnlock()
	if ok {
		return f(cfg)
	}
	switch cfg.Type {
	case "serial":
		if cfg.Serial == nil || cfg.Serial.Port == "" {
			return nil, errcode.New(errcode.InvalidParams, "bridge", "serial transport requires a port")
		}
		return serialTransport{cfg: *cfg.Serial}, nil
	}
	return nil, errcode.New(errcode.Unsupported, "bridge", "unknown transport "+cfg.Type)
}

// SerialDial opens a serial port. Host builds default to the tarm/serial
// opener; other builds inject one or leave it nil.
var SerialDial func(port string, baud int) (io.ReadWriteCloser, error)

type serialTransport struct{ cfg types.BridgeSerial }

func (t serialTransport) Open(context.Context) (io.ReadWriteCloser, error) {
	if SerialDial == nil {
		return nil, errNoDial
	}
	baud := t.cfg.Baud
	if baud == 0 {
		baud = 115200
	}
	return SerialDial(t.cfg.Port, baud)
}

func (t serialTransport) String() string { return "serial:" + t.cfg.Port }

// -----------------------------------------------------------------------------
// Utilities
// -----------------------------------------------------------------------------

func (s *Service) publishState(level, status string, err error) {
	st := types.BridgeState{
		Level:  level,
		Status: status,
		Served: s.dev.n.Load(),
		TS:     time.Now().UnixNano(),
	}
	if err != nil {
		st.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(s.stateTopic, st, true))
}

func backoffSeq(min, max time.Duration) func() time.Duration {
	if min <= 0 {
		min = 100 * time.Millisecond
	}
	if max < min {
		max = min
	}
	cur := min
	return func() time.Duration {
		d := cur
		cur *= 2
		if cur > max {
			cur = max
		}
		return d
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
