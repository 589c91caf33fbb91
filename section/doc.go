// Package section defines the fixed binary header of a POD archive.
//
// An archive stores a list of values back to back, optionally compressed:
//
//	┌──────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                     │
//	│  - Flag (4 bytes): magic, options, codec     │
//	│  - Count (4 bytes)                           │
//	│  - PayloadLength (4 bytes)                   │
//	│  - UncompressedLength (4 bytes)              │
//	│  - Checksum (4 bytes): CRC-32C of payload    │
//	│  - Reserved (12 bytes, zero)                 │
//	├──────────────────────────────────────────────┤
//	│ Payload (PayloadLength bytes)                │
//	│  - padded values, compressed as a whole      │
//	└──────────────────────────────────────────────┘
//
// The magic number is always stored little-endian so a reader can find the
// options byte, and with it the byte order of the remaining fields and of
// the values themselves, before decoding anything else.
package section
