package app

import (
	"encoding/json"
	"log"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ebelski/go-copter/internal/config"
	"github.com/ebelski/go-copter/internal/imu"
	"github.com/ebelski/go-copter/internal/sensors"
)

// magNorm computes the magnitude of the magnetic field vector in µT.
func magNorm(mx, my, mz float32) float64 {
	x := float64(mx)
	y := float64(my)
	z := float64(mz)
	return math.Sqrt(x*x + y*y + z*z)
}

// RunIMUProducer samples the IMU on a fixed interval and publishes scaled
// readings over MQTT: the full sample on TopicIMU, a mag-only payload on
// TopicMag.
func RunIMUProducer() error {
	log.Println("starting imu producer")

	cfg := config.Get()

	dev, closeBus, err := openIMU(cfg)
	if err != nil {
		return err
	}
	defer closeBus()

	source := sensors.NewIMU(dev)

	if mpuID, akID, err := source.WhoAmI(); err != nil {
		log.Printf("imu: identity re-read failed: %v", err)
	} else {
		log.Printf("imu: WHO_AM_I mpu9250=0x%02X ak8963=0x%02X", mpuID, akID)
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("connected to MQTT, starting publish loop")

	logEvery := time.Duration(cfg.ConsoleLogInterval) * time.Millisecond
	var lastLog time.Time

	// main tick
	ticker := time.NewTicker(time.Duration(cfg.IMUSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		sample, err := source.Next()
		if err != nil {
			// Transport errors do not latch; keep sampling.
			log.Printf("imu read error: %v", err)
			continue
		}

		payload, err := json.Marshal(sample)
		if err != nil {
			log.Printf("imu marshal error: %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicIMU, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (imu): %v", token.Error())
			continue
		}

		// Mag-only topic with the field magnitude for quick calibration checks.
		magMsg := struct {
			Mx   float32 `json:"mx"`
			My   float32 `json:"my"`
			Mz   float32 `json:"mz"`
			Norm float64 `json:"norm"`
			Time string  `json:"time"`
		}{
			Mx:   sample.Mx,
			My:   sample.My,
			Mz:   sample.Mz,
			Norm: magNorm(sample.Mx, sample.My, sample.Mz),
			Time: t.Format(time.RFC3339),
		}
		if payload, err := json.Marshal(magMsg); err != nil {
			log.Printf("mag marshal error: %v", err)
		} else {
			client.Publish(cfg.TopicMag, 0, true, payload)
		}

		if t.Sub(lastLog) >= logEvery {
			lastLog = t
			logSample(t, sample)
		}
	}
	return nil
}

func logSample(t time.Time, s imu.Sample) {
	log.Printf("%s tick: accel ax=%.3f ay=%.3f az=%.3f g | gyro gx=%.1f gy=%.1f gz=%.1f dps | mag mx=%.1f my=%.1f mz=%.1f uT |B|=%.1f | temp=%.1fC",
		t.Format(time.RFC3339),
		s.Ax, s.Ay, s.Az,
		s.Gx, s.Gy, s.Gz,
		s.Mx, s.My, s.Mz,
		magNorm(s.Mx, s.My, s.Mz),
		s.Temp,
	)
}
