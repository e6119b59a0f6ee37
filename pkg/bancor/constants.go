package bancor

import "github.com/holiman/uint256"

// FormulaVersion identifies the conversion formula revision. Results must be
// bit-identical across every implementation carrying the same version, so any
// change to the constants below requires a bump.
const FormulaVersion = "0.2"

const (
	// MaxCRR is the highest supported constant reserve ratio, in ppm (100%).
	MaxCRR = 1000000

	// MinPrecision and MaxPrecision bound the number of fractional bits the
	// exponentiation engine may run at.
	MinPrecision = 32
	MaxPrecision = 127

	ln2Exponent = 122
)

var (
	// Fixed1 and Fixed2 represent 1 and 2 at MaxPrecision fractional bits.
	Fixed1 = uint256.MustFromHex("0x80000000000000000000000000000000")
	Fixed2 = uint256.MustFromHex("0x100000000000000000000000000000000")

	// MaxNum is the largest numerator ln accepts: 2^(256-MaxPrecision) - 1.
	MaxNum = uint256.MustFromHex("0x1ffffffffffffffffffffffffffffffff")

	// ln2Mantissa / 2^ln2Exponent approximates ln(2). Used once, at the end
	// of ln, to rescale a base-2 logarithm into a natural one.
	ln2Mantissa = uint256.MustFromHex("0x2c5c85fdf473de6af278ece600fcbda")

	one = uint256.NewInt(1)
)

// maxExpArray[p-MinPrecision] is the largest 127-bit-scaled logarithm that
// fixedExp can evaluate at precision p without exceeding 256 bits in any
// intermediate value. Entry p equals ((maxExponent_p + 1) << (MaxPrecision -
// p)) - 1. The sequence is strictly decreasing; findPrecision's binary search
// depends on that ordering.
var maxExpArray = [MaxPrecision - MinPrecision + 1]*uint256.Int{
	uint256.MustFromHex("0x1c35fedd14ffffffffffffffffffffffff"), // 32
	uint256.MustFromHex("0x1b0ce43b323fffffffffffffffffffffff"), // 33
	uint256.MustFromHex("0x19f0028ec1ffffffffffffffffffffffff"), // 34
	uint256.MustFromHex("0x18ded91f0e7fffffffffffffffffffffff"), // 35
	uint256.MustFromHex("0x17d8ec7f0417ffffffffffffffffffffff"), // 36
	uint256.MustFromHex("0x16ddc6556cdbffffffffffffffffffffff"), // 37
	uint256.MustFromHex("0x15ecf52776a1ffffffffffffffffffffff"), // 38
	uint256.MustFromHex("0x15060c256cb2ffffffffffffffffffffff"), // 39
	uint256.MustFromHex("0x1428a2f98d72ffffffffffffffffffffff"), // 40
	uint256.MustFromHex("0x13545598e5c23fffffffffffffffffffff"), // 41
	uint256.MustFromHex("0x1288c4161ce1dfffffffffffffffffffff"), // 42
	uint256.MustFromHex("0x11c592761c666fffffffffffffffffffff"), // 43
	uint256.MustFromHex("0x110a688680a757ffffffffffffffffffff"), // 44
	uint256.MustFromHex("0x1056f1b5bedf77ffffffffffffffffffff"), // 45
	uint256.MustFromHex("0xfaadceceeff8bffffffffffffffffffff"),  // 46
	uint256.MustFromHex("0xf05dc6b27edadffffffffffffffffffff"),  // 47
	uint256.MustFromHex("0xe67a5a25da4107fffffffffffffffffff"),  // 48
	uint256.MustFromHex("0xdcff115b14eedffffffffffffffffffff"),  // 49
	uint256.MustFromHex("0xd3e7a392431239fffffffffffffffffff"),  // 50
	uint256.MustFromHex("0xcb2ff529eb71e4fffffffffffffffffff"),  // 51
	uint256.MustFromHex("0xc2d415c3db974afffffffffffffffffff"),  // 52
	uint256.MustFromHex("0xbad03e7d883f69bffffffffffffffffff"),  // 53
	uint256.MustFromHex("0xb320d03b2c343d5ffffffffffffffffff"),  // 54
	uint256.MustFromHex("0xabc25204e02828dffffffffffffffffff"),  // 55
	uint256.MustFromHex("0xa4b16f74ee4bb207fffffffffffffffff"),  // 56
	uint256.MustFromHex("0x9deaf736ac1f569ffffffffffffffffff"),  // 57
	uint256.MustFromHex("0x976bd9952c7aa957fffffffffffffffff"),  // 58
	uint256.MustFromHex("0x9131271922eaa606fffffffffffffffff"),  // 59
	uint256.MustFromHex("0x8b380f3558668c46fffffffffffffffff"),  // 60
	uint256.MustFromHex("0x857ddf0117efa215bffffffffffffffff"),  // 61
	uint256.MustFromHex("0x7ffffffffffffffffffffffffffffffff"),  // 62
	uint256.MustFromHex("0x7abbf6f6abb9d087fffffffffffffffff"),  // 63
	uint256.MustFromHex("0x75af62cbac95f7dfa7fffffffffffffff"),  // 64
	uint256.MustFromHex("0x70d7fb7452e187ac13fffffffffffffff"),  // 65
	uint256.MustFromHex("0x6c3390ecc8af379295fffffffffffffff"),  // 66
	uint256.MustFromHex("0x67c00a3b07ffc01fd6fffffffffffffff"),  // 67
	uint256.MustFromHex("0x637b647c39cbb9d3d27ffffffffffffff"),  // 68
	uint256.MustFromHex("0x5f63b1fc104dbd39587ffffffffffffff"),  // 69
	uint256.MustFromHex("0x5b771955b36e12f7235ffffffffffffff"),  // 70
	uint256.MustFromHex("0x57b3d49dda84556d6f6ffffffffffffff"),  // 71
	uint256.MustFromHex("0x54183095b2c8ececf30ffffffffffffff"),  // 72
	uint256.MustFromHex("0x50a28be635ca2b888f77fffffffffffff"),  // 73
	uint256.MustFromHex("0x4d5156639708c9db33c3fffffffffffff"),  // 74
	uint256.MustFromHex("0x4a23105873875bd52dfdfffffffffffff"),  // 75
	uint256.MustFromHex("0x471649d87199aa990756fffffffffffff"),  // 76
	uint256.MustFromHex("0x4429a21a029d4c1457cfbffffffffffff"),  // 77
	uint256.MustFromHex("0x415bc6d6fb7dd71af2cb3ffffffffffff"),  // 78
	uint256.MustFromHex("0x3eab73b3bbfe282243ce1ffffffffffff"),  // 79
	uint256.MustFromHex("0x3c1771ac9fb6b4c18e229ffffffffffff"),  // 80
	uint256.MustFromHex("0x399e96897690418f785257fffffffffff"),  // 81
	uint256.MustFromHex("0x373fc456c53bb779bf0ea9fffffffffff"),  // 82
	uint256.MustFromHex("0x34f9e8e490c48e67e6ab8bfffffffffff"),  // 83
	uint256.MustFromHex("0x32cbfd4a7adc790560b3337ffffffffff"),  // 84
	uint256.MustFromHex("0x30b50570f6e5d2acca94613ffffffffff"),  // 85
	uint256.MustFromHex("0x2eb40f9f620fda6b56c2861ffffffffff"),  // 86
	uint256.MustFromHex("0x2cc8340ecb0d0f520a6af58ffffffffff"),  // 87
	uint256.MustFromHex("0x2af09481380a0a35cf1ba02ffffffffff"),  // 88
	uint256.MustFromHex("0x292c5bdd3b92ec810287b1b3fffffffff"),  // 89
	uint256.MustFromHex("0x277abdcdab07d5a77ac6d6b9fffffffff"),  // 90
	uint256.MustFromHex("0x25daf6654b1eaa55fd64df5efffffffff"),  // 91
	uint256.MustFromHex("0x244c49c648baa98192dce88b7ffffffff"),  // 92
	uint256.MustFromHex("0x22ce03cd5619a311b2471268bffffffff"),  // 93
	uint256.MustFromHex("0x215f77c045fbe885654a44a0fffffffff"),  // 94
	uint256.MustFromHex("0x1ffffffffffffffffffffffffffffffff"),  // 95
	uint256.MustFromHex("0x1eaefdbdaaee7421fc4d3ede5ffffffff"),  // 96
	uint256.MustFromHex("0x1d6bd8b2eb257df7e8ca57b09bfffffff"),  // 97
	uint256.MustFromHex("0x1c35fedd14b861eb0443f7f133fffffff"),  // 98
	uint256.MustFromHex("0x1b0ce43b322bcde4a56e8ada5afffffff"),  // 99
	uint256.MustFromHex("0x19f0028ec1fff007f5a195a39dfffffff"),  // 100
	uint256.MustFromHex("0x18ded91f0e72ee74f49b15ba527ffffff"),  // 101
	uint256.MustFromHex("0x17d8ec7f04136f4e5615fd41a63ffffff"),  // 102
	uint256.MustFromHex("0x16ddc6556cdb84bdc8d12d22e6fffffff"),  // 103
	uint256.MustFromHex("0x15ecf52776a1155b5bd8395814f7fffff"),  // 104
	uint256.MustFromHex("0x15060c256cb23b3b3cc3754cf40ffffff"),  // 105
	uint256.MustFromHex("0x1428a2f98d728ae223ddab715be3fffff"),  // 106
	uint256.MustFromHex("0x13545598e5c23276ccf0ede68034fffff"),  // 107
	uint256.MustFromHex("0x1288c4161ce1d6f54b7f61081194fffff"),  // 108
	uint256.MustFromHex("0x11c592761c666aa641d5a01a40f17ffff"),  // 109
	uint256.MustFromHex("0x110a688680a7530515f3e6e6cfdcdffff"),  // 110
	uint256.MustFromHex("0x1056f1b5bedf75c6bcb2ce8aed428ffff"),  // 111
	uint256.MustFromHex("0xfaadceceeff8a0890f3875f008277fff"),   // 112
	uint256.MustFromHex("0xf05dc6b27edad306388a600f6ba0bfff"),   // 113
	uint256.MustFromHex("0xe67a5a25da41063de1495d5b18cdbfff"),   // 114
	uint256.MustFromHex("0xdcff115b14eedde6fc3aa5353f2e4fff"),   // 115
	uint256.MustFromHex("0xd3e7a3924312399f9aae2e0f868f8fff"),   // 116
	uint256.MustFromHex("0xcb2ff529eb71e41582cccd5a1ee26fff"),   // 117
	uint256.MustFromHex("0xc2d415c3db974ab32a51840c0b67edff"),   // 118
	uint256.MustFromHex("0xbad03e7d883f69ad5b0a186184e06bff"),   // 119
	uint256.MustFromHex("0xb320d03b2c343d4829abd6075f0cc5ff"),   // 120
	uint256.MustFromHex("0xabc25204e02828d73c6e80bcdb1a95bf"),   // 121
	uint256.MustFromHex("0xa4b16f74ee4bb2040a1ec6c15fbbf2df"),   // 122
	uint256.MustFromHex("0x9deaf736ac1f569deb1b5ae3f36c130f"),   // 123
	uint256.MustFromHex("0x976bd9952c7aa957f5937d790ef65037"),   // 124
	uint256.MustFromHex("0x9131271922eaa6064b73a22d0bd4f2bf"),   // 125
	uint256.MustFromHex("0x8b380f3558668c46c91c49a2f8e967b9"),   // 126
	uint256.MustFromHex("0x857ddf0117efa215952912839f6473e6"),   // 127
}

// fixedExpCoeffs holds the Maclaurin series coefficients for degrees 2..33:
// scaled reciprocal factorials, so the whole accumulation stays in integers.
// fixedExpDenominator is the matching scaling factor divided back out at the
// end of fixedExp.
var fixedExpCoeffs = [32]*uint256.Int{
	uint256.MustFromHex("0x3442c4e6074a82f1797f72ac0000000"),
	uint256.MustFromHex("0x116b96f757c380fb287fd0e40000000"),
	uint256.MustFromHex("0x45ae5bdd5f0e03eca1ff4390000000"),
	uint256.MustFromHex("0xdefabf91302cd95b9ffda50000000"),
	uint256.MustFromHex("0x2529ca9832b22439efff9b8000000"),
	uint256.MustFromHex("0x54f1cf12bd04e516b6da88000000"),
	uint256.MustFromHex("0xa9e39e257a09ca2d6db51000000"),
	uint256.MustFromHex("0x12e066e7b839fa050c309000000"),
	uint256.MustFromHex("0x1e33d7d926c329a1ad1a800000"),
	uint256.MustFromHex("0x2bee513bdb4a6b19b5f800000"),
	uint256.MustFromHex("0x3a9316fa79b88eccf2a00000"),
	uint256.MustFromHex("0x48177ebe1fa812375200000"),
	uint256.MustFromHex("0x5263fe90242dcbacf00000"),
	uint256.MustFromHex("0x57e22099c030d94100000"),
	uint256.MustFromHex("0x57e22099c030d9410000"),
	uint256.MustFromHex("0x52b6b54569976310000"),
	uint256.MustFromHex("0x4985f67696bf748000"),
	uint256.MustFromHex("0x3dea12ea99e498000"),
	uint256.MustFromHex("0x31880f2214b6e000"),
	uint256.MustFromHex("0x25bcff56eb36000"),
	uint256.MustFromHex("0x1b722e10ab1000"),
	uint256.MustFromHex("0x1317c70077000"),
	uint256.MustFromHex("0xcba84aafa00"),
	uint256.MustFromHex("0x82573a0a00"),
	uint256.MustFromHex("0x5035ad900"),
	uint256.MustFromHex("0x2f881b00"),
	uint256.MustFromHex("0x1b29340"),
	uint256.MustFromHex("0xefc40"),
	uint256.MustFromHex("0x7fe0"),
	uint256.MustFromHex("0x420"),
	uint256.MustFromHex("0x21"),
	uint256.MustFromHex("0x1"),
}

var fixedExpDenominator = uint256.MustFromHex("0x688589cc0e9505e2f2fee5580000000")
