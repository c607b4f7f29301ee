package insts

// Decoder decodes i960 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new i960 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes the first 32-bit word of an instruction.
//
// For a MEMB instruction whose mode carries a 32-bit displacement,
// ExtraWord reports true on the result and the caller fetches the
// second word into Disp32.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Raw:   word,
		Major: uint8(word >> 24),
	}

	// The top nibble splits the format space: 0x00..0x1F CTRL,
	// 0x20..0x3F COBR, 0x40..0x7F REG, 0x80..0xFF MEM.
	switch {
	case word>>28 >= 8:
		d.decodeMEM(word, inst)
	case word>>28 >= 4:
		d.decodeREG(word, inst)
	case word>>28 >= 2:
		d.decodeCOBR(word, inst)
	default:
		d.decodeCTRL(word, inst)
	}

	return inst
}

// decodeCTRL decodes the CTRL format.
// Format: opcode[31:24] | displacement[23:2] | T | R
func (d *Decoder) decodeCTRL(word uint32, inst *Instruction) {
	inst.Format = FormatCTRL

	// 24-bit signed displacement, masked to word alignment.
	disp := int32(word<<8) >> 8
	inst.Disp = disp &^ 3
}

// decodeCOBR decodes the COBR format.
// Format: opcode[31:24] | src1[23:19] | src2[18:14] | M1 | disp[12:2] | T | S2
func (d *Decoder) decodeCOBR(word uint32, inst *Instruction) {
	inst.Format = FormatCOBR

	inst.SrcDst = uint8(word>>19) & 31
	inst.Src2 = uint8(word>>14) & 31
	inst.M1 = word>>13&1 == 1
	inst.S2 = word&1 == 1

	// 13-bit signed displacement, masked to word alignment.
	disp := int32(word<<19) >> 19
	inst.Disp = disp &^ 3
}

// decodeREG decodes the REG format.
// Format: opcode[31:24] | src/dst[23:19] | src2[18:14] | M3 M2 M1 |
// opcode[10:7] | S2 S1 | src1[4:0]
func (d *Decoder) decodeREG(word uint32, inst *Instruction) {
	inst.Format = FormatREG

	inst.SrcDst = uint8(word>>19) & 31
	inst.Src2 = uint8(word>>14) & 31
	inst.Src1 = uint8(word) & 31
	inst.M3 = word>>13&1 == 1
	inst.M2 = word>>12&1 == 1
	inst.M1 = word>>11&1 == 1
	inst.Sub = uint8(word>>7) & 15
	inst.S2 = word>>6&1 == 1
	inst.S1 = word>>5&1 == 1
}

// decodeMEM decodes the MEM format, both MEMA and MEMB sub-encodings.
// MEMA: opcode[31:24] | src/dst[23:19] | abase[18:14] | mode[13:12] | offset[11:0]
// MEMB: opcode[31:24] | src/dst[23:19] | abase[18:14] | mode[13:10] |
// scale[9:7] | 00 | index[4:0]
func (d *Decoder) decodeMEM(word uint32, inst *Instruction) {
	inst.SrcDst = uint8(word>>19) & 31
	inst.Src2 = uint8(word>>14) & 31
	inst.Mode = uint8(word>>10) & 15

	// Bit 12 distinguishes MEMB from MEMA.
	if word&0x1000 != 0 {
		inst.Format = FormatMEMB
		inst.Src1 = uint8(word) & 31
		inst.ScaleShift = uint8(word>>7) & 7
		inst.S1 = word>>5&1 == 1
		inst.S2 = word>>6&1 == 1
	} else {
		inst.Format = FormatMEMA
		inst.Offset = word & 0xFFF
	}
}
