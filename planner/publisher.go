package planner

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// FloorplanMessage is the retained floorplan summary
type FloorplanMessage struct {
	Walls     []DesignWall `json:"walls"`
	Rooms     []DesignRoom `json:"rooms"`
	Timestamp int64        `json:"timestamp"`
}

// SelectionMessage is the retained selection state; Entity is nil when nothing is selected
type SelectionMessage struct {
	Entity    *ContextMenuView `json:"entity"`
	Timestamp int64            `json:"timestamp"`
}

// LoadingMessage is the retained loading indicator state
type LoadingMessage struct {
	Loading   bool  `json:"loading"`
	Count     int   `json:"count"`
	Timestamp int64 `json:"timestamp"`
}

// Publisher publishes session state to retained MQTT topics
type Publisher struct {
	client        mqtt.Client
	publishPrefix string
	qos           byte
	retain        bool
	last          map[string][]byte
	mu            sync.RWMutex
}

// NewPublisher creates a publisher for prefix. A nil client disables publishing.
func NewPublisher(client mqtt.Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = "roomplanner"
	}
	return &Publisher{
		client:        client,
		publishPrefix: prefix,
		qos:           0,
		retain:        true,
		last:          make(map[string][]byte),
	}
}

// PublishFloorplan publishes walls and rooms
func (p *Publisher) PublishFloorplan(d Design) error {
	return p.publish("floorplan", FloorplanMessage{Walls: d.Walls, Rooms: d.Rooms, Timestamp: time.Now().Unix()})
}

// PublishSelection publishes the current selection
func (p *Publisher) PublishSelection(view *ContextMenuView) error {
	return p.publish("selection", SelectionMessage{Entity: view, Timestamp: time.Now().Unix()})
}

// PublishLoading publishes the number of in-flight loads
func (p *Publisher) PublishLoading(count int) error {
	return p.publish("loading", LoadingMessage{Loading: count > 0, Count: count, Timestamp: time.Now().Unix()})
}

func (p *Publisher) publish(name string, message any) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	topic := fmt.Sprintf("%s/%s", p.publishPrefix, name)
	p.mu.Lock()
	p.last[topic] = payload
	p.mu.Unlock()

	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

// Last returns the most recent payload built for a topic suffix, published or not
func (p *Publisher) Last(name string) ([]byte, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	payload, ok := p.last[fmt.Sprintf("%s/%s", p.publishPrefix, name)]
	return payload, ok
}

// SetQoS sets the Quality of Service level for publishing (0, 1, or 2)
func (p *Publisher) SetQoS(qos byte) {
	if qos <= 2 {
		p.qos = qos
	}
}

// SetRetain sets whether published messages should be retained by the broker
func (p *Publisher) SetRetain(retain bool) {
	p.retain = retain
}

// logPublishError reports a failed publish without interrupting the caller
func logPublishError(what string, err error) {
	if err != nil {
		log.Printf("[MQTT] error publishing %s: %v", what, err)
	}
}
