package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/sirupsen/logrus"
)

// standalone broker for meter bring-up. Prints everything the p1ib and
// any evcharge clients publish so you can see what the controller
// would consume.
func main() {
	server := mqtt.New(&mqtt.Options{
		InlineClient: true,
	})
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Allow all connections.
	_ = server.AddHook(new(auth.AllowHook), nil)

	tcp := listeners.NewTCP(listeners.Config{ID: "t1", Address: ":1883"})
	err := server.AddListener(tcp)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		err := server.Serve()
		if err != nil {
			log.Fatal(err)
		}
	}()

	go func() {
		err := server.Subscribe("p1ib/#", 1, func(cl *mqtt.Client, sub packets.Subscription, pk packets.Packet) {
			server.Log.Info("meter message", "client", cl.ID, "topic", pk.TopicName, "payload", string(pk.Payload))
		})
		if err != nil {
			logrus.Error(err)
			return
		}
		err = server.Subscribe("evcharge/#", 2, func(cl *mqtt.Client, sub packets.Subscription, pk packets.Packet) {
			server.Log.Info("evcharge message", "client", cl.ID, "topic", pk.TopicName, "payload", string(pk.Payload))
		})
		if err != nil {
			logrus.Error(err)
		}
	}()

	<-ctx.Done()
	server.Close()
}
