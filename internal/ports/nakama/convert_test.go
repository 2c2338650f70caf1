package nakama

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"tycoon/internal/domain"
)

func TestCardIDsFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]interface{}
		want    []domain.CardID
		wantErr bool
	}{
		{name: "ids", fields: map[string]interface{}{"card_ids": []interface{}{3, 17, 53}}, want: []domain.CardID{3, 17, 53}},
		{name: "missing", fields: map[string]interface{}{}, want: nil},
		{name: "not a list", fields: map[string]interface{}{"card_ids": 4}, wantErr: true},
		{name: "fraction", fields: map[string]interface{}{"card_ids": []interface{}{1.5}}, wantErr: true},
		{name: "negative", fields: map[string]interface{}{"card_ids": []interface{}{-1}}, wantErr: true},
		{name: "string", fields: map[string]interface{}{"card_ids": []interface{}{"3♠"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := structpb.NewStruct(tt.fields)
			if err != nil {
				t.Fatalf("NewStruct error: %v", err)
			}
			got, err := cardIDsFromRequest(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("cardIDsFromRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("cardIDsFromRequest() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("cardIDsFromRequest() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	req, err := decodeRequest(nil)
	if err != nil || len(req.GetFields()) != 0 {
		t.Fatalf("empty body should decode to an empty request, got %v %v", req, err)
	}
	if _, err := decodeRequest([]byte{0xff, 0xff}); err == nil {
		t.Fatalf("garbage should not decode")
	}
}

func TestEncodePayloadCards(t *testing.T) {
	data, err := encodePayload(struct {
		Cards []domain.Card `json:"cards"`
	}{Cards: []domain.Card{{ID: 51, Rank: domain.Two, Suit: domain.Spades}}})
	if err != nil {
		t.Fatalf("encodePayload error: %v", err)
	}
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	cards := s.AsMap()["cards"].([]interface{})
	c := cards[0].(map[string]interface{})
	if c["id"] != float64(51) || c["rank"] != float64(domain.Two) || c["suit"] != float64(domain.Spades) {
		t.Fatalf("unexpected card encoding: %v", c)
	}
}
