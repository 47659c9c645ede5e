// Package mqttpub publishes the filter core's outbound messages as
// retained JSON over MQTT, mirroring the publish loop the reference
// producers drove for their own topics.
package mqttpub

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/aerolume/iekf-nav/internal/config"
	"github.com/aerolume/iekf-nav/internal/messages"
)

// Publisher owns one MQTT connection and publishes each outbound
// message type to its configured topic, retained, QoS 0.
type Publisher struct {
	client mqtt.Client
	cfg    *config.Config
}

// Connect dials the configured broker and returns a ready Publisher.
func Connect(cfg *config.Config) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDPublish)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqttpub: connect: %w", token.Error())
	}

	return &Publisher{client: client, cfg: cfg}, nil
}

// Close disconnects cleanly.
func (p *Publisher) Close() { p.client.Disconnect(250) }

// PublishAll publishes the five outputs of one filter cycle. Errors
// are logged, not returned: a dropped MQTT publish should not stall
// the estimator loop (mirrors the reference producer's "log and
// continue" pattern).
func (p *Publisher) PublishAll(
	attitude messages.Attitude,
	local messages.LocalPosition,
	global messages.GlobalPosition,
	control messages.ControlState,
	status messages.EstimatorStatus,
) {
	p.publish(p.cfg.TopicAttitude, attitude)
	p.publish(p.cfg.TopicLocalPosition, local)
	p.publish(p.cfg.TopicGlobalPosition, global)
	p.publish(p.cfg.TopicControlState, control)
	p.publish(p.cfg.TopicEstimatorStatus, status)
}

func (p *Publisher) publish(topic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("mqttpub: marshal error for topic %s: %v", topic, err)
		return
	}
	token := p.client.Publish(topic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("mqttpub: publish error for topic %s: %v", topic, token.Error())
	}
}
