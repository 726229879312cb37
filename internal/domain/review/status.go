package review

import (
	"time"

	"github.com/google/uuid"
)

type StatusName string

const (
	StatusDraft     StatusName = "draft"
	StatusPublished StatusName = "published"
	StatusHidden    StatusName = "hidden"
	StatusDeleted   StatusName = "deleted"
)

// Status is a closed set: Draft, Published, Hidden and Deleted.
type Status interface {
	Name() StatusName
	isStatus()
}

type Stamp struct {
	At time.Time
	By uuid.UUID
}

type Draft struct{}

type Published struct{}

type Hidden struct {
	Stamp
	Reason string
}

type Deleted struct {
	Stamp
	Reason string
}

func (Draft) Name() StatusName     { return StatusDraft }
func (Published) Name() StatusName { return StatusPublished }
func (Hidden) Name() StatusName    { return StatusHidden }
func (Deleted) Name() StatusName   { return StatusDeleted }

func (Draft) isStatus()     {}
func (Published) isStatus() {}
func (Hidden) isStatus()    {}
func (Deleted) isStatus()   {}

func IsTerminal(s Status) bool {
	switch s.(type) {
	case Hidden, Deleted:
		return true
	case Draft, Published:
		return false
	}
	return false
}

func ParseStatusName(s string) (StatusName, bool) {
	switch StatusName(s) {
	case StatusDraft, StatusPublished, StatusHidden, StatusDeleted:
		return StatusName(s), true
	}
	return "", false
}
