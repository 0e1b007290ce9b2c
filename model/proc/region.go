package proc

// Perm encodes memory region permission flags.
type Perm uint8

const (
	PermRead  Perm = 1 << iota // region is readable
	PermWrite                  // region is writable
	PermExec                   // region is executable
)

// PermRW is the usual permission set for stacks and heaps.
const PermRW = PermRead | PermWrite

func (p Perm) String() string {
	buf := []byte("---")
	if p&PermRead != 0 {
		buf[0] = 'r'
	}
	if p&PermWrite != 0 {
		buf[1] = 'w'
	}
	if p&PermExec != 0 {
		buf[2] = 'x'
	}
	return string(buf)
}

// Region describes one mapped address range owned exclusively by a process.
// A region is released exactly once, either by an explicit free or by
// process termination.
type Region struct {
	Addr uint64 `json:"addr"`
	Size uint64 `json:"size"`
	Perm Perm   `json:"perm"`
}
