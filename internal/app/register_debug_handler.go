package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ebelski/go-copter/internal/sensors"
	"github.com/ebelski/go-copter/mpu9250/regs"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The debug tool is served from the same host; any origin is fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// registerDebugSession holds WebSocket connection state for register
// debugging. One session drives one live IMU shared with the rest of the
// process through the sensors.IMU mutex.
type registerDebugSession struct {
	conn *websocket.Conn
	imu  *sensors.IMU
}

// registerResponse is the single response shape for all actions.
type registerResponse struct {
	Type        string            `json:"type"`             // "register_data", "register_map", "status", "error"
	Device      string            `json:"device,omitempty"` // "mpu9250" or "ak8963"
	Address     string            `json:"addr,omitempty"`
	Value       string            `json:"value,omitempty"`
	Registers   map[string]string `json:"registers,omitempty"` // for bulk read
	Timestamp   string            `json:"timestamp,omitempty"`
	Message     string            `json:"message,omitempty"`
	Status      string            `json:"status,omitempty"`
	RegisterMap []regs.Info       `json:"register_map,omitempty"`
}

// HandleRegisterDebugWS upgrades the connection and serves the register
// console: read, read_all, write, get_map, and export_config actions for
// both dies.
func HandleRegisterDebugWS(imu *sensors.IMU) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("register_debug: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		session := &registerDebugSession{conn: conn, imu: imu}

		// Send register map on connection (MPU9250 by default)
		if err := session.sendRegisterMap("mpu9250"); err != nil {
			log.Printf("register_debug: error sending register map: %v", err)
			return
		}

		// Message loop
		for {
			var rawMsg map[string]interface{}
			err := conn.ReadJSON(&rawMsg)
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("register_debug: websocket error: %v", err)
				}
				break
			}

			action, ok := rawMsg["action"].(string)
			if !ok {
				session.sendError("missing or invalid action field")
				continue
			}

			switch action {
			case "get_map":
				device, _ := rawMsg["device"].(string)
				if device == "" {
					device = "mpu9250"
				}
				session.sendRegisterMap(device)
			case "read":
				session.handleRead(rawMsg)
			case "read_all":
				session.handleReadAll(rawMsg)
			case "write":
				session.handleWrite(rawMsg)
			case "whoami":
				session.handleWhoAmI()
			case "export_config":
				session.handleExportConfig(rawMsg)
			default:
				session.sendError(fmt.Sprintf("unknown action: %s", action))
			}
		}
	}
}

func (s *registerDebugSession) handleRead(rawMsg map[string]interface{}) {
	device, _ := rawMsg["device"].(string)
	addr, _ := rawMsg["addr"].(string)

	if addr == "" {
		s.sendError("missing addr field")
		return
	}
	if device == "" {
		device = "mpu9250"
	}

	var addrByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}

	var value byte
	var err error
	if device == "ak8963" {
		value, err = s.imu.ReadAK8963Register(addrByte)
	} else {
		value, err = s.imu.ReadRegister(addrByte)
	}
	if err != nil {
		s.sendError(fmt.Sprintf("read error: %v", err))
		return
	}

	s.conn.WriteJSON(registerResponse{
		Type:      "register_data",
		Device:    device,
		Address:   addr,
		Value:     fmt.Sprintf("0x%02X", value),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *registerDebugSession) handleReadAll(rawMsg map[string]interface{}) {
	device, _ := rawMsg["device"].(string)
	if device == "" {
		device = "mpu9250"
	}

	var registers map[byte]byte
	var err error
	if device == "ak8963" {
		registers, err = s.imu.ReadAllAK8963Registers()
	} else {
		registers, err = s.imu.ReadAllRegisters()
	}
	if err != nil {
		s.sendError(fmt.Sprintf("read all error: %v", err))
		return
	}

	s.conn.WriteJSON(registerResponse{
		Type:      "register_data",
		Device:    device,
		Registers: hexMap(registers),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *registerDebugSession) handleWrite(rawMsg map[string]interface{}) {
	device, _ := rawMsg["device"].(string)
	addr, _ := rawMsg["addr"].(string)
	valueStr, _ := rawMsg["value"].(string)

	if addr == "" || valueStr == "" {
		s.sendError("missing addr or value field")
		return
	}
	if device == "" {
		device = "mpu9250"
	}

	var addrByte, valueByte byte
	if _, err := fmt.Sscanf(addr, "0x%X", &addrByte); err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", addr))
		return
	}
	if _, err := fmt.Sscanf(valueStr, "0x%X", &valueByte); err != nil {
		s.sendError(fmt.Sprintf("invalid value format: %s", valueStr))
		return
	}

	if !isRegisterWritable(device, addrByte) {
		s.sendError(fmt.Sprintf("register 0x%02X is read-only", addrByte))
		return
	}

	var err error
	if device == "ak8963" {
		err = s.imu.WriteAK8963Register(addrByte, valueByte)
	} else {
		err = s.imu.WriteRegister(addrByte, valueByte)
	}
	if err != nil {
		s.sendError(fmt.Sprintf("write error: %v", err))
		return
	}

	s.conn.WriteJSON(registerResponse{
		Type:      "register_data",
		Device:    device,
		Address:   addr,
		Value:     valueStr,
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   "write successful",
	})
}

func (s *registerDebugSession) handleWhoAmI() {
	mpuID, akID, err := s.imu.WhoAmI()
	if err != nil {
		s.sendError(fmt.Sprintf("whoami error: %v", err))
		return
	}
	s.conn.WriteJSON(registerResponse{
		Type:    "status",
		Status:  "ok",
		Message: fmt.Sprintf("mpu9250=0x%02X ak8963=0x%02X", mpuID, akID),
	})
}

// registerConfigFile is the JSON structure for exported register dumps.
type registerConfigFile struct {
	Version   int               `json:"version"`
	Device    string            `json:"device"`
	Timestamp string            `json:"timestamp"`
	Registers map[string]string `json:"registers"` // hex address -> hex value
}

func (s *registerDebugSession) handleExportConfig(rawMsg map[string]interface{}) {
	device, _ := rawMsg["device"].(string)
	if device == "" {
		device = "mpu9250"
	}

	var registers map[byte]byte
	var err error
	if device == "ak8963" {
		registers, err = s.imu.ReadAllAK8963Registers()
	} else {
		registers, err = s.imu.ReadAllRegisters()
	}
	if err != nil {
		s.sendError(fmt.Sprintf("export error: %v", err))
		return
	}

	configFile := registerConfigFile{
		Version:   1,
		Device:    device,
		Timestamp: time.Now().Format(time.RFC3339),
		Registers: hexMap(registers),
	}

	configJSON, _ := json.Marshal(configFile)
	s.conn.WriteJSON(map[string]interface{}{
		"type":     "export_config",
		"device":   device,
		"message":  "config exported",
		"config":   string(configJSON),
		"filename": fmt.Sprintf("%s_%s_registers.json", device, time.Now().Format("20060102_150405")),
	})
}

func (s *registerDebugSession) sendRegisterMap(device string) error {
	var regMap []regs.Info
	switch device {
	case "ak8963":
		regMap = regs.AKCatalog()
	default:
		device = "mpu9250"
		regMap = regs.MPUCatalog()
	}

	return s.conn.WriteJSON(registerResponse{
		Type:        "register_map",
		Device:      device,
		RegisterMap: regMap,
	})
}

func (s *registerDebugSession) sendError(message string) {
	s.conn.WriteJSON(registerResponse{
		Type:    "error",
		Message: message,
	})
}

func hexMap(registers map[byte]byte) map[string]string {
	out := make(map[string]string, len(registers))
	for addr, value := range registers {
		out[fmt.Sprintf("0x%02X", addr)] = fmt.Sprintf("0x%02X", value)
	}
	return out
}

// isRegisterWritable consults the catalog: only registers marked RW may be
// written from the console.
func isRegisterWritable(device string, addr byte) bool {
	catalog := regs.MPUCatalog()
	if device == "ak8963" {
		catalog = regs.AKCatalog()
	}
	for _, info := range catalog {
		if info.Address == addr {
			return info.Access == "RW"
		}
	}
	return false
}

// HandleIMUData serves one live scaled sample via REST.
func HandleIMUData(imu *sensors.IMU) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		sample, err := imu.Next()
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error": %q}`, err.Error()), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(sample)
	}
}
