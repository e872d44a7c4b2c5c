package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/cardtx/config"
)

const publishTimeout = 5 * time.Second

// A Publisher sends a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

type clientPublisher struct {
	client mqtt.Client
	qos    byte
}

func (p clientPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timed out", topic)
	}
	return token.Error()
}

// MQTTRenderer publishes binary frames to "<prefix>/<sequence>".
type MQTTRenderer struct {
	pub    Publisher
	prefix string
}

// NewMQTTRenderer creates a renderer publishing through client with the
// configured QoS and states prefix.
func NewMQTTRenderer(client mqtt.Client, cfg config.MQTT) *MQTTRenderer {
	return NewPublisherRenderer(clientPublisher{client: client, qos: cfg.QoS}, cfg.Topics.States)
}

// NewPublisherRenderer creates a renderer on top of any Publisher.
func NewPublisherRenderer(pub Publisher, prefix string) *MQTTRenderer {
	return &MQTTRenderer{pub: pub, prefix: strings.TrimRight(prefix, "/")}
}

// Render sends a frame as binary.
func (r *MQTTRenderer) Render(f *Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	return r.pub.Publish(r.prefix+"/"+f.Sequence, b)
}

// Streamer connects the controller's sequences to an MQTT broker: progress
// arrives on "<progress prefix>/<sequence>" and frames leave through an
// MQTTRenderer.
type Streamer struct {
	cfg        config.MQTT
	client     mqtt.Client
	controller *Controller
	log        *slog.Logger
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(cfg config.MQTT, client mqtt.Client, controller *Controller, log *slog.Logger) *Streamer {
	if log == nil {
		log = slog.Default()
	}
	return &Streamer{
		cfg:        cfg,
		client:     client,
		controller: controller,
		log:        log.With("component", "streamer"),
	}
}

// ClientOptions builds paho options for cfg. The returned options resubscribe
// through s on every (re)connect.
func (s *Streamer) ClientOptions() *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(s.cfg.URL).
		SetClientID(s.cfg.ClientID).
		SetUsername(s.cfg.Username).
		SetPassword(s.cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(s.HandleOnConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			s.log.Warn("connection lost", "error", err)
		})
}

// SetClient attaches the client built from ClientOptions.
func (s *Streamer) SetClient(client mqtt.Client) {
	s.client = client
}

// HandleOnConnect subscribes to progress topics once connected.
func (s *Streamer) HandleOnConnect(client mqtt.Client) {
	s.log.Info("connected", "broker", s.cfg.URL)
	if err := s.Subscribe(); err != nil {
		s.log.Error("subscribe failed", "error", err)
	}
}

// ProgressTopic returns the topic progress for sequence arrives on.
func (s *Streamer) ProgressTopic(sequence string) string {
	return s.cfg.Topics.Progress + "/" + sequence
}

// Subscribe subscribes to the progress topic of every live sequence.
func (s *Streamer) Subscribe() error {
	filters := make(map[string]byte)
	for _, name := range s.controller.Names() {
		filters[s.ProgressTopic(name)] = s.cfg.QoS
	}
	if len(filters) == 0 {
		return nil
	}

	token := s.client.SubscribeMultiple(filters, s.handleProgress)
	token.Wait()
	return token.Error()
}

func (s *Streamer) handleProgress(_ mqtt.Client, msg mqtt.Message) {
	s.onProgress(msg.Topic(), msg.Payload())
}

func (s *Streamer) onProgress(topic string, payload []byte) {
	name, ok := strings.CutPrefix(topic, s.cfg.Topics.Progress+"/")
	if !ok || name == "" {
		s.log.Warn("progress on unexpected topic", "topic", topic)
		return
	}
	p, err := ParseProgress(payload)
	if err != nil {
		s.log.Warn("dropping progress", "topic", topic, "error", err)
		return
	}
	if err := s.controller.Push(context.Background(), name, p); err != nil {
		if errors.Is(err, ErrDestroyed) {
			s.log.Debug("progress for destroyed sequence", "sequence", name)
			return
		}
		s.log.Warn("push failed", "sequence", name, "error", err)
	}
}

// Run connects and streams until ctx is cancelled.
func (s *Streamer) Run(ctx context.Context) error {
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", s.cfg.URL, token.Error())
	}

	<-ctx.Done()
	s.client.Disconnect(250)
	s.log.Info("disconnected")
	return nil
}
