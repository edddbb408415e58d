package planner

import (
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// CommandHandler is called with the raw payload of each remote command
type CommandHandler func(payload []byte)

// MQTTClient manages the broker connection and the remote command subscription
type MQTTClient struct {
	client      mqtt.Client
	config      *Config
	onCommand   CommandHandler
	isConnected bool
	mu          sync.RWMutex
}

// CommandTopic is the topic remote commands arrive on
func (c *Config) CommandTopic() string {
	return fmt.Sprintf("%s/commands", c.MQTT.PublishPrefix)
}

// StatusTopic carries the retained online/offline availability of the service
func (c *Config) StatusTopic() string {
	return fmt.Sprintf("%s/status", c.MQTT.PublishPrefix)
}

const (
	statusOnline  = "online"
	statusOffline = "offline"
)

// InitMQTT creates and starts connecting the MQTT client. When no broker is
// configured MQTT is disabled and this returns nil, nil.
func InitMQTT(config *Config, handler CommandHandler) (*MQTTClient, error) {
	if config == nil {
		return nil, fmt.Errorf("MQTT init: no configuration provided")
	}
	if config.MQTT.Broker == "" {
		log.Println("[MQTT] disabled: MQTT_BROKER not set")
		return nil, nil
	}

	client := &MQTTClient{
		config:    config,
		onCommand: handler,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.MQTT.Broker)
	opts.SetClientID(config.MQTT.ClientID)
	if config.MQTT.Username != "" {
		opts.SetUsername(config.MQTT.Username)
		opts.SetPassword(config.MQTT.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false)
	opts.SetOrderMatters(true) // commands must apply in arrival order
	opts.SetWill(config.StatusTopic(), statusOffline, 1, true)

	opts.SetOnConnectHandler(client.onConnect)
	opts.SetConnectionLostHandler(client.onConnectionLost)
	opts.SetReconnectingHandler(client.onReconnecting)

	client.client = mqtt.NewClient(opts)

	go client.connectWithRetry()

	return client, nil
}

// connectWithRetry attempts to connect to the MQTT broker with exponential backoff
func (c *MQTTClient) connectWithRetry() {
	retryDelay := 1 * time.Second
	maxRetryDelay := 60 * time.Second

	for {
		log.Println("[MQTT] connecting to broker...")

		token := c.client.Connect()
		if token.WaitTimeout(10 * time.Second) {
			if token.Error() == nil {
				log.Println("[MQTT] connected")
				c.setConnected(true)
				return
			}
			log.Printf("[MQTT] connection failed: %v", token.Error())
		} else {
			log.Println("[MQTT] connection timeout")
		}

		log.Printf("[MQTT] retrying connection in %v...", retryDelay)
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}
	}
}

// onConnect announces availability and subscribes to the command topic
func (c *MQTTClient) onConnect(client mqtt.Client) {
	c.setConnected(true)

	status := c.config.StatusTopic()
	if token := client.Publish(status, 1, true, statusOnline); token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("[MQTT] error publishing %s: %v", status, token.Error())
	}

	topic := c.config.CommandTopic()
	log.Printf("[MQTT] subscribing to %s", topic)
	token := client.Subscribe(topic, 1, c.handleCommand)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("[MQTT] error subscribing to %s: %v", topic, token.Error())
	}
}

func (c *MQTTClient) handleCommand(_ mqtt.Client, msg mqtt.Message) {
	log.Printf("[MQTT] command on %s (%d bytes)", msg.Topic(), len(msg.Payload()))
	if c.onCommand != nil {
		c.onCommand(msg.Payload())
	}
}

// onConnectionLost is called when the connection drops; auto-reconnect retries
func (c *MQTTClient) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("[MQTT] connection interrupted (%v), auto-reconnect will retry", err)
	c.setConnected(false)
}

func (c *MQTTClient) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	log.Println("[MQTT] reconnecting...")
}

// IsConnected returns true if the MQTT client is connected
func (c *MQTTClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

func (c *MQTTClient) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isConnected = connected
}

// Disconnect gracefully closes the MQTT connection
func (c *MQTTClient) Disconnect() {
	if c.client != nil && c.client.IsConnected() {
		log.Println("[MQTT] disconnecting...")
		// a clean disconnect does not trigger the will
		c.client.Publish(c.config.StatusTopic(), 1, true, statusOffline).WaitTimeout(time.Second)
		c.client.Disconnect(250)
		c.setConnected(false)
	}
}

// GetClient returns the underlying MQTT client for publishing
func (c *MQTTClient) GetClient() mqtt.Client {
	return c.client
}

// newMQTTClientWithMock wraps a provided mqtt.Client, for tests
func newMQTTClientWithMock(client mqtt.Client, config *Config, handler CommandHandler) *MQTTClient {
	return &MQTTClient{
		client:    client,
		config:    config,
		onCommand: handler,
	}
}
