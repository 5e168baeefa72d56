package machine

const (
	MEMORY_LIMIT = 1 << 24 // Default maximum number of memory cells.
)

// Memory is a zero filled tape of integers that grows on write.
type Memory struct {
	Limit int     // Maximum number of cells, or 0 for MEMORY_LIMIT.
	Data  []int64 // Materialized cells.
}

// Len returns the number of materialized cells.
func (mem *Memory) Len() int {
	return len(mem.Data)
}

func (mem *Memory) limit() int64 {
	if mem.Limit > 0 {
		return int64(mem.Limit)
	}
	return MEMORY_LIMIT
}

// Read returns the value at an address.
// Addresses past the end of memory read as zero.
func (mem *Memory) Read(addr int64) (value int64, err error) {
	if addr < 0 {
		err = ErrNegativeAddress(addr)
		return
	}

	if addr < int64(len(mem.Data)) {
		value = mem.Data[addr]
	}

	return
}

// Write stores a value at an address, zero filling memory up to and
// including the address if needed.
func (mem *Memory) Write(addr int64, value int64) (err error) {
	err = mem.ensure(addr)
	if err != nil {
		return
	}

	mem.Data[addr] = value
	return
}

// ensure grows memory so that addr is materialized.
func (mem *Memory) ensure(addr int64) (err error) {
	if addr < 0 {
		err = ErrNegativeAddress(addr)
		return
	}

	if addr < int64(len(mem.Data)) {
		return
	}

	if addr >= mem.limit() {
		err = ErrOutOfMemory(addr)
		return
	}

	size := int(addr) + 1
	if size <= cap(mem.Data) {
		old := len(mem.Data)
		mem.Data = mem.Data[:size]
		clear(mem.Data[old:])
		return
	}

	grown := make([]int64, size, max(size, 2*cap(mem.Data)))
	copy(grown, mem.Data)
	mem.Data = grown

	return
}
