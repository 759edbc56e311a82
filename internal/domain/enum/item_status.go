package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemStatus represents the clinical progress of a treatment item
type ItemStatus int

const (
	ItemStatusPlanned    ItemStatus = 0
	ItemStatusInProgress ItemStatus = 1
	ItemStatusCompleted  ItemStatus = 2
	ItemStatusCancelled  ItemStatus = 3
)

func (s ItemStatus) String() string {
	names := [...]string{"Planned", "InProgress", "Completed", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Planned"
	}
	return names[s]
}

// IsValid reports whether the status is one of the known values
func (s ItemStatus) IsValid() bool {
	return s >= ItemStatusPlanned && s <= ItemStatusCancelled
}

// ParseItemStatus maps a string to an ItemStatus; ok is false for unknown values
func ParseItemStatus(str string) (ItemStatus, bool) {
	switch str {
	case "Planned":
		return ItemStatusPlanned, true
	case "InProgress":
		return ItemStatusInProgress, true
	case "Completed":
		return ItemStatusCompleted, true
	case "Cancelled":
		return ItemStatusCancelled, true
	}
	return ItemStatusPlanned, false
}

func (s ItemStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ItemStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ItemStatus(i)
		return nil
	}
	if parsed, ok := ParseItemStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s ItemStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ItemStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ItemStatusPlanned
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ItemStatus(v)
	case int:
		*s = ItemStatus(v)
	}
	return nil
}
