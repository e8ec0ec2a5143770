package koiq_test

import (
	"errors"
	"testing"

	"github.com/koiq/koiq"
)

type hasPointer struct {
	X int64
	P *int64
}

type hasSlice struct {
	Data []byte
}

func TestConfigurationRejectsNonBitwiseCopyableTypes(t *testing.T) {
	for _, name := range []string{"pointer", "slice"} {
		name := name
		t.Run(name, func(t *testing.T) {
			segName := uniqueName(t)
			var err error
			switch name {
			case "pointer":
				_, err = koiq.NewSender[hasPointer](segName, 4*1024)
			case "slice":
				_, err = koiq.NewSender[hasSlice](segName, 4*1024)
			}
			if !errors.Is(err, koiq.ErrConfigurationInvalid) {
				t.Fatalf("NewSender[%s](...) err = %v, want ErrConfigurationInvalid", name, err)
			}
		})
	}
}

func TestConfigurationRejectsOversizedMessage(t *testing.T) {
	type huge struct {
		Data [65536]byte // FlagBytes + len(Data) rounds above MaxMessageBlockBytes
	}
	name := uniqueName(t)
	_, err := koiq.NewSender[huge](name, 128*1024)
	if !errors.Is(err, koiq.ErrConfigurationInvalid) {
		t.Fatalf("NewSender[huge] err = %v, want ErrConfigurationInvalid", err)
	}
}

func TestConfigurationAcceptsNestedFlatStruct(t *testing.T) {
	type inner struct{ A, B int32 }
	type outer struct {
		Inner inner
		Arr   [4]byte
	}
	name := uniqueName(t)
	s, err := koiq.NewSender[outer](name, 4*1024)
	if err != nil {
		t.Fatalf("NewSender[outer]: %v", err)
	}
	defer s.Cleanup()
}
