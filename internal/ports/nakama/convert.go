package nakama

import (
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"tycoon/internal/domain"
)

// toStruct converts a JSON-tagged payload into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

// encodePayload is the wire form of every server event: a binary google.protobuf.Struct.
func encodePayload(v any) ([]byte, error) {
	s, err := toStruct(v)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

// decodeRequest parses a client message. An empty body is an empty request.
func decodeRequest(data []byte) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if len(data) == 0 {
		return req, nil
	}
	if err := proto.Unmarshal(data, req); err != nil {
		return nil, err
	}
	return req, nil
}

// cardIDsFromRequest reads the "card_ids" list of a play request.
func cardIDsFromRequest(req *structpb.Struct) ([]domain.CardID, error) {
	field, ok := req.GetFields()["card_ids"]
	if !ok {
		return nil, nil
	}
	list := field.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("card_ids must be a list")
	}
	ids := make([]domain.CardID, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue < 0 {
			return nil, fmt.Errorf("card_ids must hold non-negative integers, got %v", v.AsInterface())
		}
		ids = append(ids, domain.CardID(n.NumberValue))
	}
	return ids, nil
}

// matchLabel renders the searchable label used by quick_match.
func matchLabel(open, seats int, phase string) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":  gameLabel,
		"open":  open,
		"phase": phase,
		"seats": seats,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}
