// Package notifier provides course observers that announce new
// enrollments through named loggers.
package notifier

import (
	"fmt"

	"github.com/mesh-intelligence/registrar/internal/logging"
	"github.com/mesh-intelligence/registrar/pkg/notify"
	"github.com/mesh-intelligence/registrar/pkg/types"
)

// Channel names, also used as logger names.
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Compile-time interface check.
var _ notify.Observer[*types.Course] = (*Enrollment)(nil)

// Enrollment announces the most recently enrolled student of a course.
type Enrollment struct {
	channel string
	log     *logging.Logger
}

// New returns an enrollment notifier that logs through the logger named
// channel in logs.
func New(logs *logging.Registry, channel string) *Enrollment {
	return &Enrollment{channel: channel, log: logs.GetOrCreate(channel)}
}

// NewSMS returns the sms enrollment notifier.
func NewSMS(logs *logging.Registry) *Enrollment { return New(logs, ChannelSMS) }

// NewEmail returns the email enrollment notifier.
func NewEmail(logs *logging.Registry) *Enrollment { return New(logs, ChannelEmail) }

// Channel returns the channel name.
func (n *Enrollment) Channel() string { return n.channel }

// Update logs the course's latest enrollment. A course without students is
// ignored.
func (n *Enrollment) Update(c *types.Course) error {
	s := c.LastStudent()
	if s == nil {
		return nil
	}
	n.log.Log(fmt.Sprintf("student %s joined course %s", s.Name, c.Name))
	return nil
}
