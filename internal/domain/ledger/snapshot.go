package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// Snapshot document layout (stable across upgrades):
//
//	{ "<day key>": { "<participant id>": { "username": "...", "update": "...", "timestamp": "..." } } }
//
// Key order is significant: days and participants appear in first-seen
// order, which is how per-day listings are ordered after a reload.
const (
	fieldDisplayLabel = "username"
	fieldBody         = "update"
	fieldTimestamp    = "timestamp"
)

var prettyOptions = &pretty.Options{Width: 80, Indent: "  ", SortKeys: false}

// recordDocument is a record as written to the snapshot. Field order matters.
type recordDocument struct {
	Username  string `json:"username"`
	Update    string `json:"update"`
	Timestamp string `json:"timestamp"`
}

func encodeSnapshot(order []shared.DayKey, days map[shared.DayKey]*dayBucket) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range order {
		bucket := days[day]
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, day.String()); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, id := range bucket.order {
			rec := bucket.records[id]
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, id.String()); err != nil {
				return nil, err
			}
			doc, err := json.Marshal(recordDocument{
				Username:  rec.DisplayLabel,
				Update:    rec.Body,
				Timestamp: rec.SubmittedAt.Format(time.RFC3339Nano),
			})
			if err != nil {
				return nil, fmt.Errorf("encode record %s/%s: %w", day, id, err)
			}
			buf.Write(doc)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	return pretty.PrettyOptions(buf.Bytes(), prettyOptions), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

func decodeSnapshot(raw []byte, loc *time.Location) ([]shared.DayKey, map[shared.DayKey]*dayBucket, error) {
	days := make(map[shared.DayKey]*dayBucket)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, days, nil
	}
	if !gjson.ValidBytes(raw) {
		return nil, nil, fmt.Errorf("%w: invalid JSON", shared.ErrMalformedSnapshot)
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, nil, fmt.Errorf("%w: top level must be an object", shared.ErrMalformedSnapshot)
	}

	var (
		order     []shared.DayKey
		decodeErr error
	)

	root.ForEach(func(dayKey, participants gjson.Result) bool {
		day, err := shared.ParseDayKey(dayKey.String())
		if err != nil {
			decodeErr = fmt.Errorf("%w: day key %q: %v", shared.ErrMalformedSnapshot, dayKey.String(), err)
			return false
		}
		if !participants.IsObject() {
			decodeErr = fmt.Errorf("%w: day %s must be an object", shared.ErrMalformedSnapshot, day)
			return false
		}

		bucket, ok := days[day]
		if !ok {
			bucket = newDayBucket()
			days[day] = bucket
			order = append(order, day)
		}

		participants.ForEach(func(participantKey, doc gjson.Result) bool {
			rec, err := decodeRecord(participantKey.String(), doc, loc)
			if err != nil {
				decodeErr = fmt.Errorf("%w: %s/%s: %v", shared.ErrMalformedSnapshot, day, participantKey.String(), err)
				return false
			}
			bucket.put(rec)
			return true
		})
		return decodeErr == nil
	})

	if decodeErr != nil {
		return nil, nil, decodeErr
	}
	return order, days, nil
}

func decodeRecord(rawID string, doc gjson.Result, loc *time.Location) (SubmissionRecord, error) {
	id := shared.ParticipantID(rawID)
	if id.IsZero() {
		return SubmissionRecord{}, fmt.Errorf("empty participant id")
	}
	if !doc.IsObject() {
		return SubmissionRecord{}, fmt.Errorf("record must be an object")
	}

	label, err := stringField(doc, fieldDisplayLabel)
	if err != nil {
		return SubmissionRecord{}, err
	}
	body, err := stringField(doc, fieldBody)
	if err != nil {
		return SubmissionRecord{}, err
	}
	ts, err := stringField(doc, fieldTimestamp)
	if err != nil {
		return SubmissionRecord{}, err
	}
	at, err := timeutil.ParseTimestamp(ts, loc)
	if err != nil {
		return SubmissionRecord{}, fmt.Errorf("timestamp %q: %w", ts, err)
	}

	return SubmissionRecord{
		ParticipantID: id,
		DisplayLabel:  label,
		Body:          body,
		SubmittedAt:   at,
	}, nil
}

func stringField(doc gjson.Result, name string) (string, error) {
	v := doc.Get(name)
	if !v.Exists() {
		return "", fmt.Errorf("missing field %q", name)
	}
	if v.Type != gjson.String {
		return "", fmt.Errorf("field %q must be a string", name)
	}
	return v.String(), nil
}
