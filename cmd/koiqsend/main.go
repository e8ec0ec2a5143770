// Command koiqsend sends a fixed run of messages into a named koiq
// segment and exits. It is an external collaborator demonstrating the
// library across a real process boundary, paired with koiqrecv.
package main

import (
	"log"
	"os"
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
	count := flag.Int("count", 100, "number of messages to send")
	userBytes := flag.Int("user-bytes", 32*1024, "user region size in bytes (power of two)")
	unlinkAfter := flag.Bool("unlink-after", false, "unlink the segment after sending (only do this if no receiver is still attaching)")
	flag.Parse()

	sender, err := koiq.NewSenderWithLogger[message](log.Default(), *name, *userBytes)
	if err != nil {
		log.Fatalf("koiqsend: NewSender: %v", err)
	}
	if *unlinkAfter {
		defer sender.Cleanup()
	} else {
		defer sender.Close()
	}

	for i := 0; i < *count; i++ {
		msg := message{Seq: int64(i), Nanos: time.Now().UnixNano()}
		for {
			status, err := sender.Send(msg)
			if err != nil {
				log.Fatalf("koiqsend: Send: %v", err)
			}
			if status == koiq.Ok {
				break
			}
			time.Sleep(time.Microsecond)
		}
	}
	log.Printf("koiqsend: sent %d messages on %q", *count, *name)
	os.Exit(0)
}
