package domain

import (
	"encoding/json"
)

const (
	EventConnect   = "connect"
	EventTerminate = "terminate"
)

// SessionDescription is the SDP payload carried by a call event.
type SessionDescription struct {
	SDP  string `json:"sdp"`
	Type string `json:"sdp_type"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Profile struct {
	Name string `json:"name"`
}

type Contact struct {
	Profile Profile `json:"profile"`
	WaID    string  `json:"wa_id"`
}

type APIError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Href    string         `json:"href"`
	Data    map[string]any `json:"error_data"`
}

// ConnectCall is an inbound call carrying the caller's offer.
type ConnectCall struct {
	ID        string             `json:"id"`
	From      string             `json:"from"`
	To        string             `json:"to"`
	Event     string             `json:"event"`
	Timestamp string             `json:"timestamp"`
	Direction string             `json:"direction"`
	Session   SessionDescription `json:"session"`
}

// TerminateCall reports that the provider considers the call over.
type TerminateCall struct {
	ID           string `json:"id"`
	From         string `json:"from"`
	To           string `json:"to"`
	Event        string `json:"event"`
	Timestamp    string `json:"timestamp"`
	Direction    string `json:"direction"`
	Status       string `json:"status"` // "COMPLETED" or "FAILED"
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Duration     int    `json:"duration"`
	CallbackData string `json:"biz_opaque_callback_data"`
}

// ChangeValue is the closed set of webhook change payloads. The variant is
// picked by the event tag on the calls it carries, not by shape sniffing.
type ChangeValue interface {
	changeValue()
}

type ConnectValue struct {
	MessagingProduct string        `json:"messaging_product"`
	Metadata         Metadata      `json:"metadata"`
	Contacts         []Contact     `json:"contacts"`
	Calls            []ConnectCall `json:"calls"`
}

func (ConnectValue) changeValue() {}

type TerminateValue struct {
	MessagingProduct string          `json:"messaging_product"`
	Metadata         Metadata        `json:"metadata"`
	Calls            []TerminateCall `json:"calls"`
	Errors           []APIError      `json:"errors"`
}

func (TerminateValue) changeValue() {}

type Change struct {
	Field string
	Value ChangeValue
}

// UnmarshalJSON decodes the change value into the variant named by the event
// tag of its calls. Changes carrying no recognizable call event decode with a
// nil Value; dispatch reports those as unsupported.
func (c *Change) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	c.Field = envelope.Field
	c.Value = nil
	if len(envelope.Value) == 0 {
		return nil
	}

	var probe struct {
		Calls []struct {
			Event string `json:"event"`
		} `json:"calls"`
	}
	if err := json.Unmarshal(envelope.Value, &probe); err != nil {
		return err
	}

	event := ""
	if len(probe.Calls) > 0 {
		event = probe.Calls[0].Event
	}

	switch event {
	case EventConnect:
		var v ConnectValue
		if err := json.Unmarshal(envelope.Value, &v); err != nil {
			return err
		}
		c.Value = v
	case EventTerminate:
		var v TerminateValue
		if err := json.Unmarshal(envelope.Value, &v); err != nil {
			return err
		}
		c.Value = v
	}
	return nil
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// WebhookRequest is a decoded provider webhook delivery.
type WebhookRequest struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}
