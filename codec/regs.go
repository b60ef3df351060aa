package codec

// Address is the codec's 7-bit I2C address with AD0 tied low.
const Address = 0x10

// Register map
const (
	RegModeControl = 0x01
	RegDACControl  = 0x02
	RegDACVolume   = 0x03
	RegChAVolume   = 0x04
	RegChBVolume   = 0x05
	RegADCControl  = 0x06
	RegModeCtrl2   = 0x07
	RegChipID      = 0x08

	// FirstRegister and LastRegister bound the readable map.
	FirstRegister = RegModeControl
	LastRegister  = RegChipID
)

// MAPAutoIncrement in the memory address pointer byte makes consecutive
// data bytes go to consecutive registers.
const MAPAutoIncrement = 0x80

// Mode Control fields
const ModeMaster = 0x08

func FuncMode(m uint8) uint8     { return (m & 0x3) << 6 }
func RatioSelect(r uint8) uint8  { return (r & 0x3) << 4 }
func SerialFormat(f uint8) uint8 { return f & 0x7 }

// DAC Control bits
const (
	DACAutoMute   = 0x80
	DACFilterSlow = 0x40
	DACRampUp     = 0x08
	DACRampDown   = 0x04
)

func DACDeEmphasis(x uint8) uint8 { return (x & 0x3) << 4 }
func DACInvert(x uint8) uint8     { return x & 0x3 }

// DAC Volume and Mixing fields
const DACVolTracking = 0x40

func DACSoftRamp(x uint8) uint8 { return (x & 0x3) << 4 }
func DACATAPI(x uint8) uint8    { return x & 0xF }

// Channel A/B volume fields
const ChannelMute = 0x80

func ChannelVolume(x uint8) uint8 { return x & 0x7F }

// ADC Control fields
const (
	ADCDither    = 0x20
	ADCSerFormat = 0x10
)

func ADCMute(x uint8) uint8 { return (x & 0x3) << 2 }
func ADCHPF(x uint8) uint8  { return x & 0x3 }

// Mode Control 2 bits
const (
	Mode2Loop       = 0x10
	Mode2MuteTrack  = 0x08
	Mode2Freeze     = 0x04
	Mode2CtrlPortEn = 0x02
	Mode2PowerDown  = 0x01
)

// Chip ID fields
func ChipPart(id uint8) uint8     { return id >> 4 }
func ChipRevision(id uint8) uint8 { return id & 0x0F }
