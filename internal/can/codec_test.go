package can

import "testing"

func TestPullDeviceType(t *testing.T) {
	tests := []struct {
		name      string
		messageID uint32
		want      DeviceType
	}{
		{name: "talon srx", messageID: 0x02040003, want: TalonSRX},
		{name: "victor spx", messageID: 0x01040005, want: VictorSPX},
		{name: "talon with api bits", messageID: 0x02041C3F, want: TalonSRX},
		{name: "wrong manufacturer", messageID: 0x02050003, want: Unknown},
		{name: "zero", messageID: 0, want: Unknown},
		{name: "all bits", messageID: 0xFFFFFFFF, want: Unknown},
		{name: "flag bits above 29 ignored", messageID: 0x80000000 | VictorSPXType, want: VictorSPX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PullDeviceType(tt.messageID); got != tt.want {
				t.Errorf("PullDeviceType(0x%08x) = %s, want %s", tt.messageID, got, tt.want)
			}
		})
	}
}

func TestClassify_VictorWinsTies(t *testing.T) {
	tests := []struct {
		name      string
		messageID uint32
		victor    uint32
		talon     uint32
		mask      uint32
		want      DeviceType
	}{
		{
			name:      "identical codes",
			messageID: 0x03040001,
			victor:    0x03040000,
			talon:     0x03040000,
			mask:      IDMaskDeviceType,
			want:      VictorSPX,
		},
		{
			name:      "codes equal under mask",
			messageID: 0x01040002,
			victor:    0x01040000,
			talon:     0x21040000,
			mask:      IDMaskDeviceType,
			want:      VictorSPX,
		},
		{
			name:      "only talon matches",
			messageID: 0x02040002,
			victor:    0x01040000,
			talon:     0x02040000,
			mask:      IDMaskDeviceType,
			want:      TalonSRX,
		},
		{
			name:      "empty mask matches victor",
			messageID: 0x12345678,
			victor:    0x01040000,
			talon:     0x02040000,
			mask:      0,
			want:      VictorSPX,
		},
		{
			name:      "neither matches",
			messageID: 0x05040002,
			victor:    0x01040000,
			talon:     0x02040000,
			mask:      IDMaskDeviceType,
			want:      Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.messageID, tt.victor, tt.talon, tt.mask); got != tt.want {
				t.Errorf("classify(0x%08x) = %s, want %s", tt.messageID, got, tt.want)
			}
		})
	}
}

func TestPullDeviceType_RoundTrip(t *testing.T) {
	for id := 0; id < 64; id++ {
		if got := PullDeviceType(MessageID(VictorSPX, uint8(id))); got != VictorSPX {
			t.Fatalf("MessageID(VICTOR_SPX, %d) decoded as %s", id, got)
		}
		if got := PullDeviceType(MessageID(TalonSRX, uint8(id))); got != TalonSRX {
			t.Fatalf("MessageID(TALON_SRX, %d) decoded as %s", id, got)
		}
	}
}

func TestPullDeviceID(t *testing.T) {
	tests := []struct {
		messageID uint32
		want      uint8
	}{
		{0x02040000, 0},
		{0x02040001, 1},
		{0x0204003F, 63},
		{0x02040040, 0},
		{0xFFFFFFFF, 63},
	}

	for _, tt := range tests {
		if got := PullDeviceID(tt.messageID); got != tt.want {
			t.Errorf("PullDeviceID(0x%08x) = %d, want %d", tt.messageID, got, tt.want)
		}
	}
}

func TestCommandByteHasFlag(t *testing.T) {
	tests := []struct {
		name string
		b    uint8
		flag uint8
		want bool
	}{
		{"power set", SetPowerPercent, SetPowerPercent, true},
		{"inverted set", SetInverted, SetInverted, true},
		{"both set", SetPowerPercent | SetInverted, SetInverted, true},
		{"other bits only", 0xFF &^ SetPowerPercent, SetPowerPercent, false},
		{"zero", 0, SetInverted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommandByteHasFlag(tt.b, tt.flag); got != tt.want {
				t.Errorf("CommandByteHasFlag(0x%02x, 0x%02x) = %v, want %v", tt.b, tt.flag, got, tt.want)
			}
		})
	}
}

func TestMessageID(t *testing.T) {
	for _, typ := range []DeviceType{TalonSRX, VictorSPX} {
		id := MessageID(typ, 12)
		if got := PullDeviceType(id); got != typ {
			t.Errorf("PullDeviceType(MessageID(%s, 12)) = %s", typ, got)
		}
		if got := PullDeviceID(id); got != 12 {
			t.Errorf("PullDeviceID(MessageID(%s, 12)) = %d", typ, got)
		}
	}

	if got := PullDeviceType(MessageID(Unknown, 12)); got != Unknown {
		t.Errorf("PullDeviceType(MessageID(UNKNOWN, 12)) = %s", got)
	}
}
