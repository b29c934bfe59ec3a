package mqtt

import (
	"context"
	"encoding/json"
	"sync"

	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/nergy-se/evcharge/pkg/api/v1/meter"
	"github.com/sirupsen/logrus"
)

// Start runs the embedded broker. The p1ib meter publishes readings to
// it and anything on the local network can arm a manual override by
// publishing to evcharge/override.
func Start(ctx context.Context, wg *sync.WaitGroup, address string, cache *meter.Cache, onOverride func()) (*mqttv2.Server, error) {
	server := mqttv2.New(&mqttv2.Options{
		InlineClient: true,
	})

	// Allow all connections.
	_ = server.AddHook(new(auth.AllowHook), nil)

	tcp := listeners.NewTCP(listeners.Config{ID: "t1", Address: address})
	err := server.AddListener(tcp)
	if err != nil {
		return server, err
	}

	err = server.Serve()
	if err != nil {
		return server, err
	}

	err = server.Subscribe("p1ib/sensor_state", 1, func(cl *mqttv2.Client, sub packets.Subscription, pk packets.Packet) {
		p := &P1ib{}
		err := json.Unmarshal(pk.Payload, p)
		if err != nil {
			logrus.Errorf("error decoding p1ib payload: %s", err)
			return
		}
		cache.Set(p.Data(cl.ID))
	})
	if err != nil {
		return server, err
	}

	err = server.Subscribe("evcharge/override", 2, func(cl *mqttv2.Client, sub packets.Subscription, pk packets.Packet) {
		logrus.Infof("manual override from mqtt client %s", cl.ID)
		onOverride()
	})
	if err != nil {
		return server, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		server.Close()
	}()

	return server, nil
}

// PublishStatus retains the current controller status on the broker for
// dashboards and the vehicle display to pick up.
func PublishStatus(server *mqttv2.Server, status any) {
	b, err := json.Marshal(status)
	if err != nil {
		logrus.Error(err)
		return
	}
	err = server.Publish("evcharge/status", b, true, 0)
	if err != nil {
		logrus.Error(err)
	}
}
