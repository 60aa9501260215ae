// Package bus defines the transport capability the register tree delegates
// to, and a queued client that executes recorded transactions against a
// word-addressed Backend.
//
// Reads and read-modify-writes return pending handles (ValWord, ValVector)
// that become valid once the client's Dispatch has run:
//
//	q := bus.NewQueue(membus.New(0), nil)
//	v, _ := q.Read(0x10)
//	if err := q.Dispatch(ctx); err != nil {
//		return err
//	}
//	word, err := v.Value()
//
// Addresses are word addresses; a Backend decides how they map to storage.
package bus
