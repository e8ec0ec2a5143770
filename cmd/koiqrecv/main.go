// Command koiqrecv polls a named koiq segment for a fixed number of
// messages, printing each as it arrives, and exits once count messages
// have been received or the timeout elapses. It is an external
// collaborator demonstrating the library across a real process boundary,
// paired with koiqsend.
package main

import (
	"log"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/koiq/koiq"
)

type message struct {
	Seq   int64
	Nanos int64
}

func main() {
	name := flag.String("name", "/koiq-example", "shared-memory segment name")
	count := flag.Int("count", 100, "number of messages to receive before exiting")
	userBytes := flag.Int("user-bytes", 32*1024, "user region size in bytes (power of two)")
	timeout := flag.Duration("timeout", 10*time.Second, "give up if no message arrives within this long")
	flag.Parse()

	receiver, err := koiq.NewReceiverWithLogger[message](log.Default(), *name, *userBytes)
	if err != nil {
		log.Fatalf("koiqrecv: NewReceiver: %v", err)
	}
	defer receiver.Close()

	received := 0
	deadline := time.Now().Add(*timeout)
	for received < *count {
		msg, ok := receiver.Recv()
		if !ok {
			if time.Now().After(deadline) {
				log.Fatalf("koiqrecv: timed out after receiving %d/%d messages", received, *count)
			}
			time.Sleep(time.Microsecond)
			continue
		}
		deadline = time.Now().Add(*timeout)
		log.Printf("koiqrecv: seq=%d nanos=%d", msg.Seq, msg.Nanos)
		received++
	}
	log.Printf("koiqrecv: received %d messages from %q", received, *name)
}
