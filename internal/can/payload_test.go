package can

import (
	"errors"
	"testing"
)

func TestMessageData_CopyFrom(t *testing.T) {
	tests := []struct {
		name    string
		src     []byte
		n       int
		wantErr bool
	}{
		{name: "empty", src: nil, n: 0},
		{name: "partial", src: []byte{1, 2, 3}, n: 3},
		{name: "prefix of source", src: []byte{1, 2, 3}, n: 2},
		{name: "full window", src: make([]byte, MessageDataSize), n: MessageDataSize},
		{name: "past window", src: make([]byte, MessageDataSize+1), n: MessageDataSize + 1, wantErr: true},
		{name: "past source", src: []byte{1}, n: 2, wantErr: true},
		{name: "negative", src: []byte{1}, n: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m MessageData
			err := m.CopyFrom(tt.src, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CopyFrom() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfBounds) {
					t.Errorf("CopyFrom() error = %v, want ErrOutOfBounds", err)
				}
				return
			}
			for i := 0; i < tt.n; i++ {
				if b, _ := m.At(i); b != tt.src[i] {
					t.Errorf("At(%d) = %d, want %d", i, b, tt.src[i])
				}
			}
		})
	}
}

func TestMessageData_Bounds(t *testing.T) {
	var m MessageData

	if err := m.Set(CommandByte, 0xAA); err != nil {
		t.Fatalf("Set(CommandByte) error = %v", err)
	}
	cmd, err := m.Command()
	if err != nil || cmd != 0xAA {
		t.Errorf("Command() = 0x%02x, %v; want 0xaa, nil", cmd, err)
	}

	for _, i := range []int{-1, MessageDataSize, MessageDataSize + 10} {
		if _, err := m.At(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At(%d) error = %v, want ErrOutOfBounds", i, err)
		}
		if err := m.Set(i, 1); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}

func TestMessageData_BytesIsCopy(t *testing.T) {
	m, err := NewMessageData([]byte{9, 8, 7})
	if err != nil {
		t.Fatalf("NewMessageData() error = %v", err)
	}
	b := m.Bytes()
	b[0] = 0
	if got, _ := m.At(0); got != 9 {
		t.Errorf("At(0) = %d after mutating Bytes(), want 9", got)
	}
	if len(b) != MessageDataSize {
		t.Errorf("len(Bytes()) = %d, want %d", len(b), MessageDataSize)
	}
}
