package notify

import (
	"encoding/json"

	"github.com/Akhil-2310/arkanon/log"
	"github.com/nats-io/nats.go"
)

// NATS subjects for the published events.
const (
	natsGroupCreatedSubject = "arkanon.groups.created"
	natsMemberJoinedSubject = "arkanon.members.joined"
	natsSignalSentSubject   = "arkanon.signals.sent"
)

// NatsNotifier publishes events as JSON payloads on a NATS connection.
// Publication failures are logged and dropped.
type NatsNotifier struct {
	conn *nats.Conn
}

// NewNatsNotifier connects to the NATS server at url.
func NewNatsNotifier(url string) (*NatsNotifier, error) {
	conn, err := nats.Connect(url, nats.Name("arkanon"))
	if err != nil {
		return nil, err
	}
	return &NatsNotifier{conn: conn}, nil
}

// Close drains and closes the NATS connection.
func (n *NatsNotifier) Close() {
	if err := n.conn.Drain(); err != nil {
		log.Warnw("failed to drain nats connection", "error", err)
	}
}

func (n *NatsNotifier) publish(subject string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Warnw("failed to marshal notification", "subject", subject, "error", err)
		return
	}
	if err := n.conn.Publish(subject, payload); err != nil {
		log.Warnw("failed to publish notification", "subject", subject, "error", err)
	}
}

func (n *NatsNotifier) GroupCreated(event *GroupCreatedEvent) {
	n.publish(natsGroupCreatedSubject, event)
}

func (n *NatsNotifier) MemberJoined(event *MemberJoinedEvent) {
	n.publish(natsMemberJoinedSubject, event)
}

func (n *NatsNotifier) SignalSent(event *SignalSentEvent) {
	n.publish(natsSignalSentSubject, event)
}
