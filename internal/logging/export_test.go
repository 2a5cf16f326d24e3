package logging

// LastMessage returns the most recent message accepted by Emit.
func (f *Facility) LastMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
