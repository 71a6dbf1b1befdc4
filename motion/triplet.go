package motion

// Scalar constrains the element types a Triplet can carry: raw sensor counts
// or scaled physical values.
type Scalar interface {
	~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Triplet is a reading T on three axes.
//
// The axis orientations depend on the sensor producing the reading; consult
// the driver's documentation. By convention element zero is X, one is Y, two
// is Z.
type Triplet[T Scalar] struct {
	X T `json:"x"`
	Y T `json:"y"`
	Z T `json:"z"`
}

// Of builds a Triplet from individual axis values.
func Of[T Scalar](x, y, z T) Triplet[T] {
	return Triplet[T]{X: x, Y: y, Z: z}
}

// FromArray builds a Triplet from a three-element array.
func FromArray[T Scalar](a [3]T) Triplet[T] {
	return Triplet[T]{X: a[0], Y: a[1], Z: a[2]}
}

// Array returns the triplet as a three-element array.
func (t Triplet[T]) Array() [3]T {
	return [3]T{t.X, t.Y, t.Z}
}

// Values returns the individual axis values.
func (t Triplet[T]) Values() (x, y, z T) {
	return t.X, t.Y, t.Z
}

// Mul multiplies element-wise by o.
func (t Triplet[T]) Mul(o Triplet[T]) Triplet[T] {
	return Triplet[T]{X: t.X * o.X, Y: t.Y * o.Y, Z: t.Z * o.Z}
}

// Scale multiplies every element by k.
func (t Triplet[T]) Scale(k T) Triplet[T] {
	return Triplet[T]{X: t.X * k, Y: t.Y * k, Z: t.Z * k}
}

// Map applies f to every element.
func Map[T, U Scalar](t Triplet[T], f func(T) U) Triplet[U] {
	return Triplet[U]{X: f(t.X), Y: f(t.Y), Z: f(t.Z)}
}
