package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "copter_config.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

const minimalConfig = `MQTT_BROKER=tcp://localhost:1883
IMU_TRANSPORT=i2c
IMU_SAMPLE_INTERVAL=10
CONSOLE_LOG_INTERVAL=1000
`

func TestLoadMinimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker = %q", cfg.MQTTBroker)
	}
	if cfg.IMUTransport != "i2c" {
		t.Errorf("IMUTransport = %q", cfg.IMUTransport)
	}
	if cfg.IMUSampleInterval != 10 || cfg.ConsoleLogInterval != 1000 {
		t.Errorf("intervals = %d, %d", cfg.IMUSampleInterval, cfg.ConsoleLogInterval)
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, `# IMU producer configuration

MQTT_BROKER=tcp://broker:1883
MQTT_CLIENT_ID_PRODUCER=imu-producer
TOPIC_IMU=copter/imu
TOPIC_MAG=copter/mag

IMU_TRANSPORT=SPI
IMU_SPI_DEVICE=/dev/spidev0.0
IMU_SPI_SPEED_HZ=1000000

IMU_ACCEL_RANGE=2
IMU_GYRO_RANGE=1
IMU_GYRO_FCHOICE=0
IMU_DLPF_CFG=3
IMU_SMPLRT_DIV=4
IMU_ACCEL_DLPF=6

MAG_MODE=6
MAG_OUTPUT_16BIT=true

IMU_SAMPLE_INTERVAL=10
CONSOLE_LOG_INTERVAL=500
WEB_SERVER_PORT=8080
`))
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.IMUTransport != "spi" {
		t.Errorf("IMUTransport = %q, want lowercased %q", cfg.IMUTransport, "spi")
	}
	if cfg.IMUSPIDevice != "/dev/spidev0.0" || cfg.IMUSPISpeedHz != 1000000 {
		t.Errorf("SPI settings = %q, %d", cfg.IMUSPIDevice, cfg.IMUSPISpeedHz)
	}
	if cfg.IMUAccelRange != 2 || cfg.IMUGyroRange != 1 {
		t.Errorf("ranges = %d, %d", cfg.IMUAccelRange, cfg.IMUGyroRange)
	}
	if cfg.IMUDLPFConfig != 3 || cfg.IMUSampleRateDiv != 4 || cfg.IMUAccelDLPF != 6 {
		t.Errorf("rate config = %d, %d, %d", cfg.IMUDLPFConfig, cfg.IMUSampleRateDiv, cfg.IMUAccelDLPF)
	}
	if cfg.MagMode != 6 || !cfg.MagOutput16Bit {
		t.Errorf("mag config = %d, %v", cfg.MagMode, cfg.MagOutput16Bit)
	}
	if cfg.WebServerPort != 8080 {
		t.Errorf("WebServerPort = %d", cfg.WebServerPort)
	}
}

func TestLoadRequiredFields(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			"missing broker",
			"IMU_TRANSPORT=i2c\nIMU_SAMPLE_INTERVAL=10\nCONSOLE_LOG_INTERVAL=1000\n",
			"MQTT_BROKER",
		},
		{
			"missing transport",
			"MQTT_BROKER=tcp://localhost:1883\nIMU_SAMPLE_INTERVAL=10\nCONSOLE_LOG_INTERVAL=1000\n",
			"IMU_TRANSPORT",
		},
		{
			"spi without device",
			"MQTT_BROKER=tcp://localhost:1883\nIMU_TRANSPORT=spi\nIMU_SAMPLE_INTERVAL=10\nCONSOLE_LOG_INTERVAL=1000\n",
			"IMU_SPI_DEVICE",
		},
		{
			"missing sample interval",
			"MQTT_BROKER=tcp://localhost:1883\nIMU_TRANSPORT=i2c\nCONSOLE_LOG_INTERVAL=1000\n",
			"IMU_SAMPLE_INTERVAL",
		},
		{
			"missing log interval",
			"MQTT_BROKER=tcp://localhost:1883\nIMU_TRANSPORT=i2c\nIMU_SAMPLE_INTERVAL=10\n",
			"CONSOLE_LOG_INTERVAL",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.contents))
			if err == nil {
				t.Fatal("Load(): want error, got none")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Load(): %v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}

func TestLoadInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"bad transport", "IMU_TRANSPORT=uart"},
		{"accel range too big", "IMU_ACCEL_RANGE=4"},
		{"gyro range negative", "IMU_GYRO_RANGE=-1"},
		{"dlpf too big", "IMU_DLPF_CFG=8"},
		{"fchoice too big", "IMU_GYRO_FCHOICE=3"},
		{"divider too big", "IMU_SMPLRT_DIV=256"},
		{"undefined mag mode", "MAG_MODE=5"},
		{"reserved mag mode", "MAG_MODE=15"},
		{"bad bool", "MAG_OUTPUT_16BIT=sure"},
		{"zero baud rate", "STREAM_BAUD_RATE=0"},
		{"zero spi speed", "IMU_SPI_SPEED_HZ=0"},
		{"unknown key", "IMU_TURBO=1"},
		{"missing equals", "MQTT_BROKER tcp://localhost:1883"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, minimalConfig+tc.line+"\n")); err == nil {
				t.Errorf("Load() with %q: want error, got none", tc.line)
			}
		})
	}
}

func TestLoadSkipsCommentsAndBlanks(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
# comment line
MQTT_BROKER = tcp://localhost:1883

   # indented comment
IMU_TRANSPORT = i2c
IMU_SAMPLE_INTERVAL = 10
CONSOLE_LOG_INTERVAL = 1000
`))
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker = %q, want whitespace trimmed", cfg.MQTTBroker)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Load() of missing file: want error, got none")
	}
}
