package workload

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownWorkload = errors.New("unknown workload")

// Kind selects which operation-selection rule a worker applies each iteration.
type Kind int

const (
	PutAll Kind = iota
	GetAll
	PopularGet
	Mixed
)

func (k Kind) String() string {
	switch k {
	case PutAll:
		return "putall"
	case GetAll:
		return "getall"
	case PopularGet:
		return "popular"
	case Mixed:
		return "mixed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a CLI workload name to a Kind.
// "getpopular" and "popular" are aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "putall":
		return PutAll, nil
	case "getall":
		return GetAll, nil
	case "getpopular", "popular":
		return PopularGet, nil
	case "mixed":
		return Mixed, nil
	}
	return 0, fmt.Errorf("%w: %q (want putall|getall|popular|mixed)", ErrUnknownWorkload, s)
}

type Operation int

const (
	Create Operation = iota
	Read
	Delete

	NumOperations = 3
)

func (o Operation) String() string {
	switch o {
	case Create:
		return "create"
	case Read:
		return "read"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// Request is one drawn unit of work. Value is empty unless Op is Create.
type Request struct {
	Op    Operation
	Key   string
	Value string
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
