package heartbeat

import (
	"context"
	"time"

	"adcctl-go/bus"
	"adcctl-go/types"
	"adcctl-go/x/jsonx"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicHeartbeat       = bus.T("heartbeat")
)

type Service struct {
	start time.Time
	seq   uint64
}

func interval(cfg types.HeartbeatConfig) time.Duration {
	switch {
	case cfg.IntervalMS > 0:
		return time.Duration(cfg.IntervalMS) * time.Millisecond
	case cfg.IntervalS > 0:
		return time.Duration(cfg.IntervalS) * time.Second
	}
	return time.Second
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	s.start = time.Now()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case t := <-tick.C:
			s.seq++
			conn.Publish(conn.NewMessage(topicHeartbeat, types.Heartbeat{
				Seq:    s.seq,
				Uptime: int64(t.Sub(s.start) / time.Second),
				TS:     t.UnixNano(),
			}, false))
		case msg := <-cfgSub.Channel():
			var cfg types.HeartbeatConfig
			if err := jsonx.Decode(msg.Payload, &cfg); err != nil {
				println("[heartbeat] bad config:", err.Error())
				continue
			}
			d := interval(cfg)
			tick.Reset(d)
			println("[heartbeat] interval", d.String())
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
