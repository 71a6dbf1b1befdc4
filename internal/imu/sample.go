package imu

// Sample is one scaled 9DOF reading: acceleration in g, angular rate in
// degrees per second, magnetic flux density in microtesla, die temperature
// in degrees Celsius. All axes share the accelerometer/gyro body frame.
type Sample struct {
	Ax float32 `json:"ax"` // accel
	Ay float32 `json:"ay"`
	Az float32 `json:"az"`

	Gx float32 `json:"gx"` // gyro
	Gy float32 `json:"gy"`
	Gz float32 `json:"gz"`

	Mx float32 `json:"mx"` // magnetometer
	My float32 `json:"my"`
	Mz float32 `json:"mz"`

	Temp float32 `json:"temp"`
}

// Source yields consecutive samples.
type Source interface {
	Next() (Sample, error)
}
