// Package koiq implements koi-queue, a single-producer/single-consumer,
// lock-free message queue between two cooperating processes, backed by a
// named POSIX shared-memory segment.
//
// Construct a Sender and a Receiver against the same segment name (from
// the same process or two different ones, in either order) and exchange
// fixed-size values of a compile-time type T:
//
//	type Message struct{ X, Y int64 }
//
//	sender, err := koiq.NewSender[Message]("/koiq-example", 32*1024)
//	receiver, err := koiq.NewReceiver[Message]("/koiq-example", 32*1024)
//
//	sender.Send(Message{X: 1, Y: 2})
//	msg, ok := receiver.Recv()
//
// Send and Recv never block: Send returns koiq.Full if the queue has no
// free slot, Recv returns ok=false if there is nothing to read. Neither
// endpoint is safe for concurrent use by more than one goroutine on its
// own side; the queue is SPSC, not MPMC.
package koiq
