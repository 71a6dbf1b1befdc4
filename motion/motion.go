// Package motion defines three-axis sample types and the query interfaces
// implemented by motion sensors.
package motion

// Accelerometer reports linear acceleration in g.
type Accelerometer interface {
	Accelerometer() (Triplet[float32], error)
}

// Gyroscope reports angular rate in degrees per second.
type Gyroscope interface {
	Gyroscope() (Triplet[float32], error)
}

// Magnetometer reports magnetic flux density in microtesla.
type Magnetometer interface {
	Magnetometer() (Triplet[float32], error)
}

// DOF6 reports accelerometer and gyroscope readings taken from the same
// sample cycle where the device supports it.
type DOF6 interface {
	Accelerometer
	Gyroscope
	DOF6() (accel, gyro Triplet[float32], err error)
}

// MARG reports all nine degrees of freedom.
type MARG interface {
	DOF6
	Magnetometer
	MARG() (accel, gyro, mag Triplet[float32], err error)
}
