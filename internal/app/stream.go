package app

import (
	"encoding/json"
	"log"
	"time"

	"github.com/jacobsa/go-serial/serial"

	"github.com/ebelski/go-copter/internal/config"
	"github.com/ebelski/go-copter/internal/sensors"
)

// RunStreamer samples the IMU on a fixed interval and writes
// newline-delimited JSON frames to a serial port, for downstream consumers
// that hang off a UART instead of the network.
func RunStreamer() error {
	log.Println("starting imu serial streamer")

	cfg := config.Get()

	dev, closeBus, err := openIMU(cfg)
	if err != nil {
		return err
	}
	defer closeBus()

	source := sensors.NewIMU(dev)

	options := serial.OpenOptions{
		PortName:        cfg.StreamSerialPort,
		BaudRate:        cfg.StreamBaudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	}
	port, err := serial.Open(options)
	if err != nil {
		return err
	}
	defer port.Close()

	log.Printf("streaming to %s at %d baud", cfg.StreamSerialPort, cfg.StreamBaudRate)

	enc := json.NewEncoder(port)

	ticker := time.NewTicker(time.Duration(cfg.IMUSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		sample, err := source.Next()
		if err != nil {
			log.Printf("imu read error: %v", err)
			continue
		}
		// Encoder appends the newline delimiter.
		if err := enc.Encode(sample); err != nil {
			log.Printf("serial write error: %v", err)
		}
	}
	return nil
}
