package db

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type idDoc struct {
	ID       uuid.UUID  `bson:"_id"`
	Parent   *uuid.UUID `bson:"parent,omitempty"`
	Fallback uuid.UUID  `bson:"fallback"`
}

func encode(t *testing.T, reg *bson.Registry, v interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := bson.NewEncoder(bson.NewDocumentWriter(&buf))
	enc.SetRegistry(reg)
	if err := enc.Encode(v); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return buf.Bytes()
}

func decode(reg *bson.Registry, raw []byte, v interface{}) error {
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(raw)))
	dec.SetRegistry(reg)
	return dec.Decode(v)
}

func TestRegistry_UUIDRoundTrip(t *testing.T) {
	reg := Registry()
	parent := uuid.New()
	in := idDoc{ID: uuid.New(), Parent: &parent}

	raw := encode(t, reg, in)
	idVal := bson.Raw(raw).Lookup("_id")
	if idVal.Type != bson.TypeBinary {
		t.Fatalf("expected binary _id, got %v", idVal.Type)
	}
	if subtype, _ := idVal.Binary(); subtype != bson.TypeBinaryUUID {
		t.Errorf("expected subtype 4, got %d", subtype)
	}

	var out idDoc
	if err := decode(reg, raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != in.ID || out.Parent == nil || *out.Parent != parent {
		t.Errorf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestRegistry_DecodesStringIDs(t *testing.T) {
	id := uuid.New()
	raw, err := bson.Marshal(bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out idDoc
	if err := decode(Registry(), raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != id {
		t.Errorf("expected %s, got %s", id, out.ID)
	}
}
