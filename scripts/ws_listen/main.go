package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/RahulSaini202/home-automation/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_listen: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "", "home id to join; empty listens to global events only")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	leave := flag.Bool("leave", false, "send leave after the first sensor event")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	dialCtx, cancelDial := context.WithTimeout(ctx, 5*time.Second)
	conn, _, err := websocket.Dial(dialCtx, *addr, nil)
	cancelDial()
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(kind string) error {
		payload, err := json.Marshal(proto.RoomData{Room: *room})
		if err != nil {
			return fmt.Errorf("marshal %s: %w", kind, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: kind, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", kind, err)
		}
		return nil
	}

	if *room != "" {
		if err := send(proto.InboundTypeJoin); err != nil {
			return err
		}
	}

	left := false
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				fmt.Printf("closed: status=%d\n", status)
				return nil
			}
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		if outbound.Error != nil {
			fmt.Printf("error: code=%s msg=%s\n", outbound.Error.Code, outbound.Error.Msg)
			continue
		}

		raw, _ := json.Marshal(outbound.Data)
		fmt.Printf("%s room=%s data=%s\n", outbound.Event, outbound.Room, raw)

		switch outbound.Event {
		case "humidity", "temperature", "lightintensity", "motiondetection":
			if *leave && !left && *room != "" {
				left = true
				if err := send(proto.InboundTypeLeave); err != nil {
					return err
				}
			}
		}
	}
}
