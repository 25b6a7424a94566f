package buffer

// Grow makes room for the record at index in a backing array holding size
// records of stride elements each. When index < size the array is returned
// unchanged. Otherwise a zero-filled backing of max(2*size, index, 1)
// records is allocated and the first size records are copied over.
// Writing the record itself is the caller's job.
func Grow[T any](array []T, index, stride, size int) (int, []T) {
	if index < size {
		return size, array
	}
	newSize := max(2*size, index, 1)
	grown := make([]T, newSize*stride)
	copy(grown, array[:size*stride])
	return newSize, grown
}

// Array is a contiguous buffer of fixed-stride records with manual capacity
// tracking. Capacity only grows. Logical length is owned by the caller.
type Array[T any] struct {
	data   []T
	stride int
	size   int
	grows  int
}

func NewArray[T any](stride int) *Array[T] {
	if stride < 1 {
		stride = 1
	}
	return &Array[T]{stride: stride}
}

// Ensure grows the backing storage until record i is addressable.
func (a *Array[T]) Ensure(i int) {
	for i >= a.size {
		a.size, a.data = Grow(a.data, i, a.stride, a.size)
		a.grows++
	}
}

// Set writes entry (stride elements) at record i, growing if needed.
func (a *Array[T]) Set(i int, entry ...T) {
	a.Ensure(i)
	copy(a.data[i*a.stride:(i+1)*a.stride], entry)
}

// Put writes a single-element record at i, growing if needed.
func (a *Array[T]) Put(i int, v T) {
	a.Ensure(i)
	a.data[i*a.stride] = v
}

// Row returns the stride elements of record i. The slice aliases the backing.
func (a *Array[T]) Row(i int) []T {
	return a.data[i*a.stride : (i+1)*a.stride : (i+1)*a.stride]
}

// At returns the first element of record i.
func (a *Array[T]) At(i int) T {
	return a.data[i*a.stride]
}

// Ptr returns a pointer to the first element of record i.
func (a *Array[T]) Ptr(i int) *T {
	return &a.data[i*a.stride]
}

// Overwrite copies record j over record i.
func (a *Array[T]) Overwrite(i, j int) {
	copy(a.data[i*a.stride:(i+1)*a.stride], a.data[j*a.stride:(j+1)*a.stride])
}

// Slice returns the first n records as a borrowed view.
func (a *Array[T]) Slice(n int) []T {
	return a.data[: n*a.stride : n*a.stride]
}

// Size is the capacity in records.
func (a *Array[T]) Size() int { return a.size }

// Grows reports how many reallocations have happened.
func (a *Array[T]) Grows() int { return a.grows }
