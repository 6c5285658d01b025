package wire

import (
	"bytes"
	"encoding/json"
	"testing"

	"eventbook/internal/app/model"
)

func TestFromUserEmitsEmptyRegistrationList(t *testing.T) {
	u := model.User{
		ID:                 "u-1",
		Name:               "Client Test",
		RegisteredEventIDs: []string{},
	}

	raw, err := json.Marshal(FromUser(u))
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	// An empty list must reach the store as []; dropping the field would make
	// the removal of the last mirrored id invisible.
	if !bytes.Contains(raw, []byte(`"registeredEventIds":[]`)) {
		t.Errorf("Marshal() = %s, want registeredEventIds emitted as []", raw)
	}
}

func TestFromUserNilRegistrationListEncodesAsNull(t *testing.T) {
	raw, err := json.Marshal(FromUser(model.User{ID: "u-1"}))
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if !bytes.Contains(raw, []byte(`"registeredEventIds":null`)) {
		t.Errorf("Marshal() = %s, want registeredEventIds null when unset", raw)
	}

	var decoded User
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if decoded.RegisteredEventIDs != nil {
		t.Errorf("RegisteredEventIDs = %v, want nil after a null round trip", decoded.RegisteredEventIDs)
	}
}
