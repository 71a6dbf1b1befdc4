package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ebelski/go-copter/internal/config"
	"github.com/ebelski/go-copter/internal/imu"
)

// RunConsole subscribes to the IMU topics and prints readings until
// interrupted.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to IMU samples
	imuToken := client.Subscribe(cfg.TopicIMU, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s imu.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: imu unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[IMU] ax=%7.3f ay=%7.3f az=%7.3f g  gx=%7.1f gy=%7.1f gz=%7.1f dps  mx=%7.1f my=%7.1f mz=%7.1f uT  t=%5.1fC\n",
			s.Ax, s.Ay, s.Az, s.Gx, s.Gy, s.Gz, s.Mx, s.My, s.Mz, s.Temp,
		)
	})
	imuToken.Wait()
	if imuToken.Error() != nil {
		return imuToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicIMU)

	// Subscribe to the mag-only topic
	magToken := client.Subscribe(cfg.TopicMag, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m struct {
			Mx   float32 `json:"mx"`
			My   float32 `json:"my"`
			Mz   float32 `json:"mz"`
			Norm float64 `json:"norm"`
			Time string  `json:"time"`
		}
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: mag unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[MAG] mx=%7.1f my=%7.1f mz=%7.1f uT  |B|=%6.1f  %s\n",
			m.Mx, m.My, m.Mz, m.Norm, m.Time,
		)
	})
	magToken.Wait()
	if magToken.Error() != nil {
		return magToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicMag)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
