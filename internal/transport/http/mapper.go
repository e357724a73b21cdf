package http

import (
	"encoding/json"
	"strings"

	"github.com/RahulSaini202/home-automation/internal/core"
	"github.com/RahulSaini202/home-automation/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	var kind core.CommandKind
	switch inbound.Type {
	case proto.InboundTypeJoin:
		kind = core.CommandJoinRoom
	case proto.InboundTypeLeave, proto.InboundTypeDis:
		kind = core.CommandLeaveRoom
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}

	room, err := decodeRoom(inbound.Data)
	if err != nil {
		return nil, nil, err
	}
	if room == "" {
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
	}
	return &core.Command{Kind: kind, Room: room}, nil, nil
}

// decodeRoom accepts {"room":"id"} or a bare "id".
func decodeRoom(data json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}
	if trimmed[0] == '"' {
		var room string
		if err := json.Unmarshal(data, &room); err != nil {
			return "", err
		}
		return room, nil
	}
	var rd proto.RoomData
	if err := json.Unmarshal(data, &rd); err != nil {
		return "", err
	}
	return rd.Room, nil
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: event.Kind.String(),
			Room:  event.Room,
			Data:  event.Payload(),
		}
	}
}

func outboundFromError(err error) proto.Outbound {
	ce := core.ErrorFor(err)
	return proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: ce.Code, Msg: ce.Message},
	}
}
