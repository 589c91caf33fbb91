package section

const (
	// MagicV1 identifies version 1 of the archive layout.
	MagicV1 = 0xB0D1

	// Option bits.
	EndiannessMask = 0x01 // 0=little, 1=big
	ReservedMask   = 0xFE // must be zero
)

const (
	HeaderSize   = 32 // fixed header size in bytes
	FlagSize     = 4  // packed flag size in bytes
	ReservedSize = HeaderSize - 20
)
