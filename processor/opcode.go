package processor

import (
	"fmt"
	"strings"
)

// Op is a decoded operation. The set of operations is closed: every
// function code slot decodes to one of these, OP_INVALID included.
type Op uint16

const (
	OP_INVALID = Op(iota) // Undefined function code.
	OP_LA
	OP_LNA
	OP_LMA
	OP_LNMA
	OP_LR
	OP_LX
	OP_LXM
	OP_LXI
	OP_LXLM
	OP_LXSI
	OP_LSBO
	OP_LSBL
	OP_DL
	OP_DLN
	OP_DLM
	OP_LRS
	OP_LD
	OP_LPD
	OP_SA
	OP_SNA
	OP_SMA
	OP_SR
	OP_SX
	OP_SZ
	OP_SNZ
	OP_SP1
	OP_SN1
	OP_SFS
	OP_SFZ
	OP_SAS
	OP_SAZ
	OP_DS
	OP_SRS
	OP_SD
	OP_SPD
	OP_AA
	OP_ANA
	OP_AMA
	OP_ANMA
	OP_AU
	OP_ANU
	OP_AX
	OP_ANX
	OP_AH
	OP_ANH
	OP_AT
	OP_ANT
	OP_ADD1
	OP_SUB1
	OP_INC
	OP_DEC
	OP_INC2
	OP_DEC2
	OP_ENZ
	OP_DA
	OP_DAN
	OP_MI
	OP_MSI
	OP_MF
	OP_DI
	OP_DSF
	OP_DF
	OP_OR
	OP_XOR
	OP_AND
	OP_MLU
	OP_SSC
	OP_DSC
	OP_SSL
	OP_DSL
	OP_SSA
	OP_DSA
	OP_LSC
	OP_DLSC
	OP_LSSC
	OP_LDSC
	OP_LSSL
	OP_LDSL
	OP_TEP
	OP_TOP
	OP_TLEM
	OP_TZ
	OP_TNZ
	OP_TE
	OP_TNE
	OP_TLE
	OP_TG
	OP_TW
	OP_TNW
	OP_TP
	OP_TN
	OP_DTE
	OP_MTE
	OP_MTNE
	OP_MTLE
	OP_MTG
	OP_MTW
	OP_MTNW
	OP_MATL
	OP_MATG
	OP_TNOP
	OP_TGZ
	OP_TPZ
	OP_TMZ
	OP_TMZG
	OP_TNLZ
	OP_TLZ
	OP_TPZL
	OP_TNMZ
	OP_TNPZ
	OP_TNGZ
	OP_TSKP
	OP_TS
	OP_TSS
	OP_TCS
	OP_J
	OP_JK
	OP_HJ
	OP_HLTJ
	OP_JZ
	OP_JNZ
	OP_JP
	OP_JN
	OP_JB
	OP_JNB
	OP_JGD
	OP_JMGI
	OP_LMJ
	OP_SLJ
	OP_JO
	OP_JNO
	OP_JC
	OP_JNC
	OP_JDF
	OP_JNDF
	OP_DJZ
	OP_JPS
	OP_JNS
	OP_AAIJ
	OP_PAIJ
	OP_HALT
	OP_NOP
	OP_ER
	OP_SGNL
	OP_IAR
	OP_LBU
	OP_LBE
	OP_LBUD
	OP_LBED
	OP_SBU
	OP_SBUD
	OP_SBED
	OP_LBN
	OP_DABT
	OP_LAE
	OP_COUNT
)

// RegisterKind is what the a field of an instruction selects.
type RegisterKind int

const (
	REG_NONE   = RegisterKind(0) // a is unused.
	REG_A      = RegisterKind(1) // Accumulator A(a).
	REG_X      = RegisterKind(2) // Index register X(a).
	REG_R      = RegisterKind(3) // R register R(a).
	REG_B      = RegisterKind(4) // Base register B(a).
	REG_B_EXEC = RegisterKind(5) // Base register B(a+16).
	REG_GRS    = RegisterKind(6) // GRS register at j<<4|a.
	REG_VALUE  = RegisterKind(7) // a is a value.
)

// OpFlags describe how an operation forms its operand.
type OpFlags uint

const (
	OPF_IMMEDIATE = OpFlags(1 << 0) // j of U or XU selects an immediate operand.
	OPF_JUMP      = OpFlags(1 << 1) // The indexed u field is a jump target.
	OPF_U_VALUE   = OpFlags(1 << 2) // The indexed u field is the operand itself.
)

// OpIndex is the set of instruction fields that select an operation.
type OpIndex int

const (
	INDEX_F   = OpIndex(0) // f alone.
	INDEX_FA  = OpIndex(1) // f and a; j is a partial word designator.
	INDEX_FJ  = OpIndex(2) // f and j.
	INDEX_FJA = OpIndex(3) // f, j and a.
)

// OpMode is the addressing mode an encoding is valid in.
type OpMode int

const (
	MODE_EITHER   = OpMode(0) // Basic and extended mode.
	MODE_BASIC    = OpMode(1) // Basic mode only.
	MODE_EXTENDED = OpMode(2) // Extended mode only.
)

type opInfo struct {
	Mnemonic string
	Register RegisterKind
	Flags    OpFlags
}

var opInfos = [OP_COUNT]opInfo{
	OP_INVALID: {"", REG_NONE, 0},
	OP_LA:   {"LA", REG_A, OPF_IMMEDIATE},
	OP_LNA:  {"LNA", REG_A, OPF_IMMEDIATE},
	OP_LMA:  {"LMA", REG_A, OPF_IMMEDIATE},
	OP_LNMA: {"LNMA", REG_A, OPF_IMMEDIATE},
	OP_LR:   {"LR", REG_R, OPF_IMMEDIATE},
	OP_LX:   {"LX", REG_X, OPF_IMMEDIATE},
	OP_LXM:  {"LXM", REG_X, OPF_IMMEDIATE},
	OP_LXI:  {"LXI", REG_X, OPF_IMMEDIATE},
	OP_LXLM: {"LXLM", REG_X, 0},
	OP_LXSI: {"LXSI", REG_X, OPF_IMMEDIATE},
	OP_LSBO: {"LSBO", REG_X, OPF_IMMEDIATE},
	OP_LSBL: {"LSBL", REG_X, OPF_IMMEDIATE},
	OP_DL:   {"DL", REG_A, 0},
	OP_DLN:  {"DLN", REG_A, 0},
	OP_DLM:  {"DLM", REG_A, 0},
	OP_LRS:  {"LRS", REG_A, 0},
	OP_LD:   {"LD", REG_NONE, 0},
	OP_LPD:  {"LPD", REG_NONE, OPF_U_VALUE},
	OP_SA:   {"SA", REG_A, 0},
	OP_SNA:  {"SNA", REG_A, 0},
	OP_SMA:  {"SMA", REG_A, 0},
	OP_SR:   {"SR", REG_R, 0},
	OP_SX:   {"SX", REG_X, 0},
	OP_SZ:   {"SZ", REG_NONE, 0},
	OP_SNZ:  {"SNZ", REG_NONE, 0},
	OP_SP1:  {"SP1", REG_NONE, 0},
	OP_SN1:  {"SN1", REG_NONE, 0},
	OP_SFS:  {"SFS", REG_NONE, 0},
	OP_SFZ:  {"SFZ", REG_NONE, 0},
	OP_SAS:  {"SAS", REG_NONE, 0},
	OP_SAZ:  {"SAZ", REG_NONE, 0},
	OP_DS:   {"DS", REG_A, 0},
	OP_SRS:  {"SRS", REG_A, 0},
	OP_SD:   {"SD", REG_NONE, 0},
	OP_SPD:  {"SPD", REG_NONE, 0},
	OP_AA:   {"AA", REG_A, OPF_IMMEDIATE},
	OP_ANA:  {"ANA", REG_A, OPF_IMMEDIATE},
	OP_AMA:  {"AMA", REG_A, OPF_IMMEDIATE},
	OP_ANMA: {"ANMA", REG_A, OPF_IMMEDIATE},
	OP_AU:   {"AU", REG_A, OPF_IMMEDIATE},
	OP_ANU:  {"ANU", REG_A, OPF_IMMEDIATE},
	OP_AX:   {"AX", REG_X, OPF_IMMEDIATE},
	OP_ANX:  {"ANX", REG_X, OPF_IMMEDIATE},
	OP_AH:   {"AH", REG_A, 0},
	OP_ANH:  {"ANH", REG_A, 0},
	OP_AT:   {"AT", REG_A, 0},
	OP_ANT:  {"ANT", REG_A, 0},
	OP_ADD1: {"ADD1", REG_NONE, 0},
	OP_SUB1: {"SUB1", REG_NONE, 0},
	OP_INC:  {"INC", REG_NONE, 0},
	OP_DEC:  {"DEC", REG_NONE, 0},
	OP_INC2: {"INC2", REG_NONE, 0},
	OP_DEC2: {"DEC2", REG_NONE, 0},
	OP_ENZ:  {"ENZ", REG_NONE, 0},
	OP_DA:   {"DA", REG_A, 0},
	OP_DAN:  {"DAN", REG_A, 0},
	OP_MI:   {"MI", REG_A, OPF_IMMEDIATE},
	OP_MSI:  {"MSI", REG_A, OPF_IMMEDIATE},
	OP_MF:   {"MF", REG_A, OPF_IMMEDIATE},
	OP_DI:   {"DI", REG_A, OPF_IMMEDIATE},
	OP_DSF:  {"DSF", REG_A, OPF_IMMEDIATE},
	OP_DF:   {"DF", REG_A, OPF_IMMEDIATE},
	OP_OR:   {"OR", REG_A, OPF_IMMEDIATE},
	OP_XOR:  {"XOR", REG_A, OPF_IMMEDIATE},
	OP_AND:  {"AND", REG_A, OPF_IMMEDIATE},
	OP_MLU:  {"MLU", REG_A, OPF_IMMEDIATE},
	OP_SSC:  {"SSC", REG_A, OPF_U_VALUE},
	OP_DSC:  {"DSC", REG_A, OPF_U_VALUE},
	OP_SSL:  {"SSL", REG_A, OPF_U_VALUE},
	OP_DSL:  {"DSL", REG_A, OPF_U_VALUE},
	OP_SSA:  {"SSA", REG_A, OPF_U_VALUE},
	OP_DSA:  {"DSA", REG_A, OPF_U_VALUE},
	OP_LSC:  {"LSC", REG_A, 0},
	OP_DLSC: {"DLSC", REG_A, 0},
	OP_LSSC: {"LSSC", REG_A, OPF_U_VALUE},
	OP_LDSC: {"LDSC", REG_A, OPF_U_VALUE},
	OP_LSSL: {"LSSL", REG_A, OPF_U_VALUE},
	OP_LDSL: {"LDSL", REG_A, OPF_U_VALUE},
	OP_TEP:  {"TEP", REG_A, OPF_IMMEDIATE},
	OP_TOP:  {"TOP", REG_A, OPF_IMMEDIATE},
	OP_TLEM: {"TLEM", REG_X, OPF_IMMEDIATE},
	OP_TZ:   {"TZ", REG_VALUE, OPF_IMMEDIATE},
	OP_TNZ:  {"TNZ", REG_VALUE, OPF_IMMEDIATE},
	OP_TE:   {"TE", REG_A, OPF_IMMEDIATE},
	OP_TNE:  {"TNE", REG_A, OPF_IMMEDIATE},
	OP_TLE:  {"TLE", REG_A, OPF_IMMEDIATE},
	OP_TG:   {"TG", REG_A, OPF_IMMEDIATE},
	OP_TW:   {"TW", REG_A, OPF_IMMEDIATE},
	OP_TNW:  {"TNW", REG_A, OPF_IMMEDIATE},
	OP_TP:   {"TP", REG_VALUE, OPF_IMMEDIATE},
	OP_TN:   {"TN", REG_VALUE, OPF_IMMEDIATE},
	OP_DTE:  {"DTE", REG_A, 0},
	OP_MTE:  {"MTE", REG_A, 0},
	OP_MTNE: {"MTNE", REG_A, 0},
	OP_MTLE: {"MTLE", REG_A, 0},
	OP_MTG:  {"MTG", REG_A, 0},
	OP_MTW:  {"MTW", REG_A, 0},
	OP_MTNW: {"MTNW", REG_A, 0},
	OP_MATL: {"MATL", REG_A, 0},
	OP_MATG: {"MATG", REG_A, 0},
	OP_TNOP: {"TNOP", REG_NONE, OPF_IMMEDIATE},
	OP_TGZ:  {"TGZ", REG_NONE, OPF_IMMEDIATE},
	OP_TPZ:  {"TPZ", REG_NONE, OPF_IMMEDIATE},
	OP_TMZ:  {"TMZ", REG_NONE, OPF_IMMEDIATE},
	OP_TMZG: {"TMZG", REG_NONE, OPF_IMMEDIATE},
	OP_TNLZ: {"TNLZ", REG_NONE, OPF_IMMEDIATE},
	OP_TLZ:  {"TLZ", REG_NONE, OPF_IMMEDIATE},
	OP_TPZL: {"TPZL", REG_NONE, OPF_IMMEDIATE},
	OP_TNMZ: {"TNMZ", REG_NONE, OPF_IMMEDIATE},
	OP_TNPZ: {"TNPZ", REG_NONE, OPF_IMMEDIATE},
	OP_TNGZ: {"TNGZ", REG_NONE, OPF_IMMEDIATE},
	OP_TSKP: {"TSKP", REG_NONE, OPF_IMMEDIATE},
	OP_TS:   {"TS", REG_NONE, 0},
	OP_TSS:  {"TSS", REG_NONE, 0},
	OP_TCS:  {"TCS", REG_NONE, 0},
	OP_J:    {"J", REG_NONE, OPF_JUMP},
	OP_JK:   {"JK", REG_VALUE, OPF_JUMP},
	OP_HJ:   {"HJ", REG_VALUE, OPF_JUMP},
	OP_HLTJ: {"HLTJ", REG_NONE, OPF_JUMP},
	OP_JZ:   {"JZ", REG_A, OPF_JUMP},
	OP_JNZ:  {"JNZ", REG_A, OPF_JUMP},
	OP_JP:   {"JP", REG_A, OPF_JUMP},
	OP_JN:   {"JN", REG_A, OPF_JUMP},
	OP_JB:   {"JB", REG_A, OPF_JUMP},
	OP_JNB:  {"JNB", REG_A, OPF_JUMP},
	OP_JGD:  {"JGD", REG_GRS, OPF_JUMP},
	OP_JMGI: {"JMGI", REG_X, OPF_JUMP},
	OP_LMJ:  {"LMJ", REG_X, OPF_JUMP},
	OP_SLJ:  {"SLJ", REG_NONE, OPF_JUMP},
	OP_JO:   {"JO", REG_NONE, OPF_JUMP},
	OP_JNO:  {"JNO", REG_NONE, OPF_JUMP},
	OP_JC:   {"JC", REG_NONE, OPF_JUMP},
	OP_JNC:  {"JNC", REG_NONE, OPF_JUMP},
	OP_JDF:  {"JDF", REG_NONE, OPF_JUMP},
	OP_JNDF: {"JNDF", REG_NONE, OPF_JUMP},
	OP_DJZ:  {"DJZ", REG_A, OPF_JUMP},
	OP_JPS:  {"JPS", REG_A, OPF_JUMP},
	OP_JNS:  {"JNS", REG_A, OPF_JUMP},
	OP_AAIJ: {"AAIJ", REG_NONE, OPF_JUMP},
	OP_PAIJ: {"PAIJ", REG_NONE, OPF_JUMP},
	OP_HALT: {"HALT", REG_NONE, OPF_U_VALUE},
	OP_NOP:  {"NOP", REG_VALUE, OPF_U_VALUE},
	OP_ER:   {"ER", REG_NONE, OPF_U_VALUE},
	OP_SGNL: {"SGNL", REG_NONE, OPF_U_VALUE},
	OP_IAR:  {"IAR", REG_NONE, 0},
	OP_LBU:  {"LBU", REG_B, 0},
	OP_LBE:  {"LBE", REG_B_EXEC, 0},
	OP_LBUD: {"LBUD", REG_B, 0},
	OP_LBED: {"LBED", REG_B_EXEC, 0},
	OP_SBU:  {"SBU", REG_B, 0},
	OP_SBUD: {"SBUD", REG_B, 0},
	OP_SBED: {"SBED", REG_B_EXEC, 0},
	OP_LBN:  {"LBN", REG_X, 0},
	OP_DABT: {"DABT", REG_NONE, 0},
	OP_LAE:  {"LAE", REG_NONE, 0},
}

// OpEncoding locates an operation in the function code space.
type OpEncoding struct {
	Op    Op
	Index OpIndex
	Mode  OpMode
	F     uint
	J     uint
	A     uint
}

var opEncodings = []OpEncoding{
	{OP_LA, INDEX_F, MODE_EITHER, 010, 0, 0},
	{OP_LNA, INDEX_F, MODE_EITHER, 011, 0, 0},
	{OP_LMA, INDEX_F, MODE_EITHER, 012, 0, 0},
	{OP_LNMA, INDEX_F, MODE_EITHER, 013, 0, 0},
	{OP_LR, INDEX_F, MODE_EITHER, 023, 0, 0},
	{OP_LX, INDEX_F, MODE_EITHER, 027, 0, 0},
	{OP_LXM, INDEX_F, MODE_EITHER, 026, 0, 0},
	{OP_LXI, INDEX_F, MODE_EITHER, 046, 0, 0},
	{OP_LXLM, INDEX_FJ, MODE_EITHER, 075, 013, 0},
	{OP_LXSI, INDEX_F, MODE_EXTENDED, 051, 0, 0},
	{OP_LSBO, INDEX_F, MODE_EXTENDED, 060, 0, 0},
	{OP_LSBL, INDEX_F, MODE_EXTENDED, 061, 0, 0},
	{OP_DL, INDEX_FJ, MODE_EITHER, 071, 013, 0},
	{OP_DLN, INDEX_FJ, MODE_EITHER, 071, 014, 0},
	{OP_DLM, INDEX_FJ, MODE_EITHER, 071, 015, 0},
	{OP_LRS, INDEX_FJ, MODE_EITHER, 072, 017, 0},
	{OP_LD, INDEX_FJA, MODE_EITHER, 073, 015, 014},
	{OP_LPD, INDEX_FJ, MODE_BASIC, 07, 014, 0},
	{OP_SA, INDEX_F, MODE_EITHER, 01, 0, 0},
	{OP_SNA, INDEX_F, MODE_EITHER, 02, 0, 0},
	{OP_SMA, INDEX_F, MODE_EITHER, 03, 0, 0},
	{OP_SR, INDEX_F, MODE_EITHER, 04, 0, 0},
	{OP_SX, INDEX_F, MODE_EITHER, 06, 0, 0},
	{OP_SZ, INDEX_FA, MODE_EITHER, 05, 0, 0},
	{OP_SNZ, INDEX_FA, MODE_EITHER, 05, 0, 01},
	{OP_SP1, INDEX_FA, MODE_EITHER, 05, 0, 02},
	{OP_SN1, INDEX_FA, MODE_EITHER, 05, 0, 03},
	{OP_SFS, INDEX_FA, MODE_EITHER, 05, 0, 04},
	{OP_SFZ, INDEX_FA, MODE_EITHER, 05, 0, 05},
	{OP_SAS, INDEX_FA, MODE_EITHER, 05, 0, 06},
	{OP_SAZ, INDEX_FA, MODE_EITHER, 05, 0, 07},
	{OP_DS, INDEX_FJ, MODE_EITHER, 071, 012, 0},
	{OP_SRS, INDEX_FJ, MODE_EITHER, 072, 016, 0},
	{OP_SD, INDEX_FJA, MODE_EITHER, 073, 015, 015},
	{OP_SPD, INDEX_FJ, MODE_BASIC, 07, 015, 0},
	{OP_AA, INDEX_F, MODE_EITHER, 014, 0, 0},
	{OP_ANA, INDEX_F, MODE_EITHER, 015, 0, 0},
	{OP_AMA, INDEX_F, MODE_EITHER, 016, 0, 0},
	{OP_ANMA, INDEX_F, MODE_EITHER, 017, 0, 0},
	{OP_AU, INDEX_F, MODE_EITHER, 020, 0, 0},
	{OP_ANU, INDEX_F, MODE_EITHER, 021, 0, 0},
	{OP_AX, INDEX_F, MODE_EITHER, 024, 0, 0},
	{OP_ANX, INDEX_F, MODE_EITHER, 025, 0, 0},
	{OP_AH, INDEX_FJ, MODE_EITHER, 072, 04, 0},
	{OP_ANH, INDEX_FJ, MODE_EITHER, 072, 05, 0},
	{OP_AT, INDEX_FJ, MODE_EITHER, 072, 06, 0},
	{OP_ANT, INDEX_FJ, MODE_EITHER, 072, 07, 0},
	{OP_ADD1, INDEX_FA, MODE_EITHER, 05, 0, 015},
	{OP_SUB1, INDEX_FA, MODE_EITHER, 05, 0, 016},
	{OP_INC, INDEX_FA, MODE_EITHER, 05, 0, 010},
	{OP_DEC, INDEX_FA, MODE_EITHER, 05, 0, 011},
	{OP_INC2, INDEX_FA, MODE_EITHER, 05, 0, 012},
	{OP_DEC2, INDEX_FA, MODE_EITHER, 05, 0, 013},
	{OP_ENZ, INDEX_FA, MODE_EITHER, 05, 0, 014},
	{OP_DA, INDEX_FJ, MODE_EITHER, 071, 010, 0},
	{OP_DAN, INDEX_FJ, MODE_EITHER, 071, 011, 0},
	{OP_MI, INDEX_F, MODE_EITHER, 030, 0, 0},
	{OP_MSI, INDEX_F, MODE_EITHER, 031, 0, 0},
	{OP_MF, INDEX_F, MODE_EITHER, 032, 0, 0},
	{OP_DI, INDEX_F, MODE_EITHER, 034, 0, 0},
	{OP_DSF, INDEX_F, MODE_EITHER, 035, 0, 0},
	{OP_DF, INDEX_F, MODE_EITHER, 036, 0, 0},
	{OP_OR, INDEX_F, MODE_EITHER, 040, 0, 0},
	{OP_XOR, INDEX_F, MODE_EITHER, 041, 0, 0},
	{OP_AND, INDEX_F, MODE_EITHER, 042, 0, 0},
	{OP_MLU, INDEX_F, MODE_EITHER, 043, 0, 0},
	{OP_SSC, INDEX_FJ, MODE_EITHER, 073, 0, 0},
	{OP_DSC, INDEX_FJ, MODE_EITHER, 073, 01, 0},
	{OP_SSL, INDEX_FJ, MODE_EITHER, 073, 02, 0},
	{OP_DSL, INDEX_FJ, MODE_EITHER, 073, 03, 0},
	{OP_SSA, INDEX_FJ, MODE_EITHER, 073, 04, 0},
	{OP_DSA, INDEX_FJ, MODE_EITHER, 073, 05, 0},
	{OP_LSC, INDEX_FJ, MODE_EITHER, 073, 06, 0},
	{OP_DLSC, INDEX_FJ, MODE_EITHER, 073, 07, 0},
	{OP_LSSC, INDEX_FJ, MODE_EITHER, 073, 010, 0},
	{OP_LDSC, INDEX_FJ, MODE_EITHER, 073, 011, 0},
	{OP_LSSL, INDEX_FJ, MODE_EITHER, 073, 012, 0},
	{OP_LDSL, INDEX_FJ, MODE_EITHER, 073, 013, 0},
	{OP_TEP, INDEX_F, MODE_EITHER, 044, 0, 0},
	{OP_TOP, INDEX_F, MODE_EITHER, 045, 0, 0},
	{OP_TLEM, INDEX_F, MODE_EITHER, 047, 0, 0},
	{OP_TZ, INDEX_F, MODE_BASIC, 050, 0, 0},
	{OP_TZ, INDEX_FA, MODE_EXTENDED, 050, 0, 06},
	{OP_TNZ, INDEX_F, MODE_BASIC, 051, 0, 0},
	{OP_TNZ, INDEX_FA, MODE_EXTENDED, 050, 0, 011},
	{OP_TE, INDEX_F, MODE_EITHER, 052, 0, 0},
	{OP_TNE, INDEX_F, MODE_EITHER, 053, 0, 0},
	{OP_TLE, INDEX_F, MODE_EITHER, 054, 0, 0},
	{OP_TG, INDEX_F, MODE_EITHER, 055, 0, 0},
	{OP_TW, INDEX_F, MODE_EITHER, 056, 0, 0},
	{OP_TNW, INDEX_F, MODE_EITHER, 057, 0, 0},
	{OP_TP, INDEX_F, MODE_BASIC, 060, 0, 0},
	{OP_TP, INDEX_FA, MODE_EXTENDED, 050, 0, 03},
	{OP_TN, INDEX_F, MODE_BASIC, 061, 0, 0},
	{OP_TN, INDEX_FA, MODE_EXTENDED, 050, 0, 014},
	{OP_DTE, INDEX_FJ, MODE_EITHER, 071, 017, 0},
	{OP_MTE, INDEX_FJ, MODE_EXTENDED, 071, 0, 0},
	{OP_MTNE, INDEX_FJ, MODE_EXTENDED, 071, 01, 0},
	{OP_MTLE, INDEX_FJ, MODE_EXTENDED, 071, 02, 0},
	{OP_MTG, INDEX_FJ, MODE_EXTENDED, 071, 03, 0},
	{OP_MTW, INDEX_FJ, MODE_EXTENDED, 071, 04, 0},
	{OP_MTNW, INDEX_FJ, MODE_EXTENDED, 071, 05, 0},
	{OP_MATL, INDEX_FJ, MODE_EXTENDED, 071, 06, 0},
	{OP_MATG, INDEX_FJ, MODE_EXTENDED, 071, 07, 0},
	{OP_TNOP, INDEX_FA, MODE_EXTENDED, 050, 0, 0},
	{OP_TGZ, INDEX_FA, MODE_EXTENDED, 050, 0, 01},
	{OP_TPZ, INDEX_FA, MODE_EXTENDED, 050, 0, 02},
	{OP_TMZ, INDEX_FA, MODE_EXTENDED, 050, 0, 04},
	{OP_TMZG, INDEX_FA, MODE_EXTENDED, 050, 0, 05},
	{OP_TNLZ, INDEX_FA, MODE_EXTENDED, 050, 0, 07},
	{OP_TLZ, INDEX_FA, MODE_EXTENDED, 050, 0, 010},
	{OP_TPZL, INDEX_FA, MODE_EXTENDED, 050, 0, 012},
	{OP_TNMZ, INDEX_FA, MODE_EXTENDED, 050, 0, 013},
	{OP_TNPZ, INDEX_FA, MODE_EXTENDED, 050, 0, 015},
	{OP_TNGZ, INDEX_FA, MODE_EXTENDED, 050, 0, 016},
	{OP_TSKP, INDEX_FA, MODE_EXTENDED, 050, 0, 017},
	{OP_TS, INDEX_FJA, MODE_EITHER, 073, 017, 0},
	{OP_TSS, INDEX_FJA, MODE_EITHER, 073, 017, 01},
	{OP_TCS, INDEX_FJA, MODE_EITHER, 073, 017, 02},
	{OP_J, INDEX_FJA, MODE_BASIC, 074, 04, 0},
	{OP_J, INDEX_FJA, MODE_EXTENDED, 074, 015, 04},
	{OP_JK, INDEX_FJ, MODE_BASIC, 074, 04, 0},
	{OP_HJ, INDEX_FJ, MODE_BASIC, 074, 05, 0},
	{OP_HLTJ, INDEX_FJA, MODE_EITHER, 074, 015, 05},
	{OP_JZ, INDEX_FJ, MODE_EITHER, 074, 0, 0},
	{OP_JNZ, INDEX_FJ, MODE_EITHER, 074, 01, 0},
	{OP_JP, INDEX_FJ, MODE_EITHER, 074, 02, 0},
	{OP_JN, INDEX_FJ, MODE_EITHER, 074, 03, 0},
	{OP_JB, INDEX_FJ, MODE_EITHER, 074, 011, 0},
	{OP_JNB, INDEX_FJ, MODE_EITHER, 074, 010, 0},
	{OP_JGD, INDEX_F, MODE_EITHER, 070, 0, 0},
	{OP_JMGI, INDEX_FJ, MODE_EITHER, 074, 012, 0},
	{OP_LMJ, INDEX_FJ, MODE_EITHER, 074, 013, 0},
	{OP_SLJ, INDEX_FJ, MODE_BASIC, 072, 01, 0},
	{OP_JO, INDEX_FJA, MODE_EITHER, 074, 014, 0},
	{OP_JNO, INDEX_FJA, MODE_EITHER, 074, 015, 0},
	{OP_JC, INDEX_FJ, MODE_BASIC, 074, 016, 0},
	{OP_JC, INDEX_FJA, MODE_EXTENDED, 074, 014, 04},
	{OP_JNC, INDEX_FJ, MODE_BASIC, 074, 017, 0},
	{OP_JNC, INDEX_FJA, MODE_EXTENDED, 074, 014, 05},
	{OP_JDF, INDEX_FJA, MODE_EITHER, 074, 014, 03},
	{OP_JNDF, INDEX_FJA, MODE_EITHER, 074, 015, 03},
	{OP_DJZ, INDEX_FJ, MODE_EITHER, 071, 016, 0},
	{OP_JPS, INDEX_FJ, MODE_EITHER, 072, 02, 0},
	{OP_JNS, INDEX_FJ, MODE_EITHER, 072, 03, 0},
	{OP_AAIJ, INDEX_FJ, MODE_BASIC, 074, 07, 0},
	{OP_AAIJ, INDEX_FJA, MODE_EXTENDED, 074, 014, 06},
	{OP_PAIJ, INDEX_FJA, MODE_EITHER, 074, 014, 07},
	{OP_HALT, INDEX_FJA, MODE_EITHER, 077, 017, 017},
	{OP_NOP, INDEX_FJ, MODE_BASIC, 074, 06, 0},
	{OP_NOP, INDEX_FJA, MODE_EXTENDED, 073, 014, 0},
	{OP_ER, INDEX_FJ, MODE_BASIC, 072, 011, 0},
	{OP_SGNL, INDEX_FJA, MODE_EITHER, 073, 015, 017},
	{OP_IAR, INDEX_FJA, MODE_EXTENDED, 073, 017, 06},
	{OP_LBU, INDEX_FJ, MODE_EITHER, 075, 0, 0},
	{OP_LBE, INDEX_FJ, MODE_EITHER, 075, 03, 0},
	{OP_LBUD, INDEX_FJ, MODE_EITHER, 075, 07, 0},
	{OP_LBED, INDEX_FJ, MODE_EITHER, 075, 05, 0},
	{OP_SBU, INDEX_FJ, MODE_EITHER, 075, 02, 0},
	{OP_SBUD, INDEX_FJ, MODE_EITHER, 075, 06, 0},
	{OP_SBED, INDEX_FJ, MODE_EITHER, 075, 04, 0},
	{OP_LBN, INDEX_FJ, MODE_EITHER, 075, 014, 0},
	{OP_DABT, INDEX_FJA, MODE_EXTENDED, 073, 015, 06},
	{OP_LAE, INDEX_FJA, MODE_EXTENDED, 073, 015, 012},
}

type opHandler func(p *Processor) error

var opHandlers [OP_COUNT]opHandler

var opDecode [2][64][16][16]Op

func init() {
	opHandlers = [OP_COUNT]opHandler{
		OP_LA:   (*Processor).opLA,
		OP_LNA:  (*Processor).opLNA,
		OP_LMA:  (*Processor).opLMA,
		OP_LNMA: (*Processor).opLNMA,
		OP_LR:   (*Processor).opLR,
		OP_LX:   (*Processor).opLX,
		OP_LXM:  (*Processor).opLXM,
		OP_LXI:  (*Processor).opLXI,
		OP_LXLM: (*Processor).opLXLM,
		OP_LXSI: (*Processor).opLXSI,
		OP_LSBO: (*Processor).opLSBO,
		OP_LSBL: (*Processor).opLSBL,
		OP_DL:   (*Processor).opDL,
		OP_DLN:  (*Processor).opDLN,
		OP_DLM:  (*Processor).opDLM,
		OP_LRS:  (*Processor).opLRS,
		OP_LD:   (*Processor).opLD,
		OP_LPD:  (*Processor).opLPD,
		OP_SA:   (*Processor).opSA,
		OP_SNA:  (*Processor).opSNA,
		OP_SMA:  (*Processor).opSMA,
		OP_SR:   (*Processor).opSR,
		OP_SX:   (*Processor).opSX,
		OP_SZ:   (*Processor).opSZ,
		OP_SNZ:  (*Processor).opSNZ,
		OP_SP1:  (*Processor).opSP1,
		OP_SN1:  (*Processor).opSN1,
		OP_SFS:  (*Processor).opSFS,
		OP_SFZ:  (*Processor).opSFZ,
		OP_SAS:  (*Processor).opSAS,
		OP_SAZ:  (*Processor).opSAZ,
		OP_DS:   (*Processor).opDS,
		OP_SRS:  (*Processor).opSRS,
		OP_SD:   (*Processor).opSD,
		OP_SPD:  (*Processor).opSPD,
		OP_AA:   (*Processor).opAA,
		OP_ANA:  (*Processor).opANA,
		OP_AMA:  (*Processor).opAMA,
		OP_ANMA: (*Processor).opANMA,
		OP_AU:   (*Processor).opAU,
		OP_ANU:  (*Processor).opANU,
		OP_AX:   (*Processor).opAX,
		OP_ANX:  (*Processor).opANX,
		OP_AH:   (*Processor).opAH,
		OP_ANH:  (*Processor).opANH,
		OP_AT:   (*Processor).opAT,
		OP_ANT:  (*Processor).opANT,
		OP_ADD1: (*Processor).opADD1,
		OP_SUB1: (*Processor).opSUB1,
		OP_INC:  (*Processor).opINC,
		OP_DEC:  (*Processor).opDEC,
		OP_INC2: (*Processor).opINC2,
		OP_DEC2: (*Processor).opDEC2,
		OP_ENZ:  (*Processor).opENZ,
		OP_DA:   (*Processor).opDA,
		OP_DAN:  (*Processor).opDAN,
		OP_MI:   (*Processor).opMI,
		OP_MSI:  (*Processor).opMSI,
		OP_MF:   (*Processor).opMF,
		OP_DI:   (*Processor).opDI,
		OP_DSF:  (*Processor).opDSF,
		OP_DF:   (*Processor).opDF,
		OP_OR:   (*Processor).opOR,
		OP_XOR:  (*Processor).opXOR,
		OP_AND:  (*Processor).opAND,
		OP_MLU:  (*Processor).opMLU,
		OP_SSC:  (*Processor).opSSC,
		OP_DSC:  (*Processor).opDSC,
		OP_SSL:  (*Processor).opSSL,
		OP_DSL:  (*Processor).opDSL,
		OP_SSA:  (*Processor).opSSA,
		OP_DSA:  (*Processor).opDSA,
		OP_LSC:  (*Processor).opLSC,
		OP_DLSC: (*Processor).opDLSC,
		OP_LSSC: (*Processor).opLSSC,
		OP_LDSC: (*Processor).opLDSC,
		OP_LSSL: (*Processor).opLSSL,
		OP_LDSL: (*Processor).opLDSL,
		OP_TEP:  (*Processor).opTEP,
		OP_TOP:  (*Processor).opTOP,
		OP_TLEM: (*Processor).opTLEM,
		OP_TZ:   (*Processor).opTZ,
		OP_TNZ:  (*Processor).opTNZ,
		OP_TE:   (*Processor).opTE,
		OP_TNE:  (*Processor).opTNE,
		OP_TLE:  (*Processor).opTLE,
		OP_TG:   (*Processor).opTG,
		OP_TW:   (*Processor).opTW,
		OP_TNW:  (*Processor).opTNW,
		OP_TP:   (*Processor).opTP,
		OP_TN:   (*Processor).opTN,
		OP_DTE:  (*Processor).opDTE,
		OP_MTE:  (*Processor).opMTE,
		OP_MTNE: (*Processor).opMTNE,
		OP_MTLE: (*Processor).opMTLE,
		OP_MTG:  (*Processor).opMTG,
		OP_MTW:  (*Processor).opMTW,
		OP_MTNW: (*Processor).opMTNW,
		OP_MATL: (*Processor).opMATL,
		OP_MATG: (*Processor).opMATG,
		OP_TNOP: (*Processor).opTNOP,
		OP_TGZ:  (*Processor).opTGZ,
		OP_TPZ:  (*Processor).opTPZ,
		OP_TMZ:  (*Processor).opTMZ,
		OP_TMZG: (*Processor).opTMZG,
		OP_TNLZ: (*Processor).opTNLZ,
		OP_TLZ:  (*Processor).opTLZ,
		OP_TPZL: (*Processor).opTPZL,
		OP_TNMZ: (*Processor).opTNMZ,
		OP_TNPZ: (*Processor).opTNPZ,
		OP_TNGZ: (*Processor).opTNGZ,
		OP_TSKP: (*Processor).opTSKP,
		OP_TS:   (*Processor).opTS,
		OP_TSS:  (*Processor).opTSS,
		OP_TCS:  (*Processor).opTCS,
		OP_J:    (*Processor).opJ,
		OP_JK:   (*Processor).opJK,
		OP_HJ:   (*Processor).opHJ,
		OP_HLTJ: (*Processor).opHLTJ,
		OP_JZ:   (*Processor).opJZ,
		OP_JNZ:  (*Processor).opJNZ,
		OP_JP:   (*Processor).opJP,
		OP_JN:   (*Processor).opJN,
		OP_JB:   (*Processor).opJB,
		OP_JNB:  (*Processor).opJNB,
		OP_JGD:  (*Processor).opJGD,
		OP_JMGI: (*Processor).opJMGI,
		OP_LMJ:  (*Processor).opLMJ,
		OP_SLJ:  (*Processor).opSLJ,
		OP_JO:   (*Processor).opJO,
		OP_JNO:  (*Processor).opJNO,
		OP_JC:   (*Processor).opJC,
		OP_JNC:  (*Processor).opJNC,
		OP_JDF:  (*Processor).opJDF,
		OP_JNDF: (*Processor).opJNDF,
		OP_DJZ:  (*Processor).opDJZ,
		OP_JPS:  (*Processor).opJPS,
		OP_JNS:  (*Processor).opJNS,
		OP_AAIJ: (*Processor).opAAIJ,
		OP_PAIJ: (*Processor).opPAIJ,
		OP_HALT: (*Processor).opHALT,
		OP_NOP:  (*Processor).opNOP,
		OP_ER:   (*Processor).opER,
		OP_SGNL: (*Processor).opSGNL,
		OP_IAR:  (*Processor).opIAR,
		OP_LBU:  (*Processor).opLBU,
		OP_LBE:  (*Processor).opLBE,
		OP_LBUD: (*Processor).opLBUD,
		OP_LBED: (*Processor).opLBED,
		OP_SBU:  (*Processor).opSBU,
		OP_SBUD: (*Processor).opSBUD,
		OP_SBED: (*Processor).opSBED,
		OP_LBN:  (*Processor).opLBN,
		OP_DABT: (*Processor).opDABT,
		OP_LAE:  (*Processor).opLAE,
	}

	// Coarse encodings first, so that the finer ones override them.
	for _, index := range []OpIndex{INDEX_F, INDEX_FA, INDEX_FJ, INDEX_FJA} {
		for _, enc := range opEncodings {
			if enc.Index != index {
				continue
			}
			for mode := range opDecode {
				if (enc.Mode == MODE_BASIC && mode != 0) || (enc.Mode == MODE_EXTENDED && mode != 1) {
					continue
				}
				for j := range uint(16) {
					if (index == INDEX_FJ || index == INDEX_FJA) && j != enc.J {
						continue
					}
					for a := range uint(16) {
						if (index == INDEX_FA || index == INDEX_FJA) && a != enc.A {
							continue
						}
						opDecode[mode][enc.F][j][a] = enc.Op
					}
				}
			}
		}
	}
}

func (op Op) String() string {
	if op >= OP_COUNT {
		return fmt.Sprintf("Op(%d)", uint(op))
	}
	if op == OP_INVALID {
		return "INVALID"
	}
	return opInfos[op].Mnemonic
}

// Register returns what the a field of the operation selects.
func (op Op) Register() RegisterKind {
	return opInfos[op].Register
}

// Flags returns the operand forming flags of the operation.
func (op Op) Flags() OpFlags {
	return opInfos[op].Flags
}

// Decode returns the operation of an instruction word in basic or extended mode.
func Decode(iw Instruction, basic bool) Op {
	mode := 1
	if basic {
		mode = 0
	}
	return opDecode[mode][iw.F()][iw.J()][iw.A()]
}

// LookupMnemonic returns the encoding of a mnemonic in basic or extended mode.
func LookupMnemonic(mnemonic string, basic bool) (enc OpEncoding, err error) {
	mnemonic = strings.ToUpper(mnemonic)
	for _, enc = range opEncodings {
		if opInfos[enc.Op].Mnemonic != mnemonic {
			continue
		}
		if (enc.Mode == MODE_BASIC && !basic) || (enc.Mode == MODE_EXTENDED && basic) {
			continue
		}
		return
	}
	err = fmt.Errorf("%w: %v", ErrMnemonic, mnemonic)
	return
}
