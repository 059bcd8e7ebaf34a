package ingest

// Counter hands out record ids. Ids start at 1 and strictly increase for the
// lifetime of the counter, across loads and reloads.
//
// Counter is not safe for concurrent use; a load owns it while it runs.
type Counter struct {
	next int64
}

// NewCounter returns a counter whose first id is 1.
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Next returns the next id.
func (c *Counter) Next() int64 {
	if c.next == 0 {
		c.next = 1
	}
	id := c.next
	c.next++
	return id
}

// Peek returns the id the next call to Next will return.
func (c *Counter) Peek() int64 {
	if c.next == 0 {
		return 1
	}
	return c.next
}
