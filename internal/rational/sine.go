package rational

import "math/big"

// SineTable is the canonical fine-grained sine quarter-wave table (period
// 360 grid units == 1 turn, 91 nodes spanning a quarter turn, peak scaled to
// 1,000,000). It exists purely as a reusable trig primitive for the reform
// lane's spherical sunrise model (declination and hour-angle via sin/cos/
// asin/acos), distinct from the domain-specific MoonTab/SunTab correction
// tables each engine spec carries. Values are literal, computed once
// offline (sin at one-degree steps, peak-scaled) — not derived from a
// floating-point call in the evaluation path, preserving the determinism
// contract.
var SineTable = NewOddPeriodicTable(360, []int64{
	0, 17452, 34899, 52336, 69756, 87156, 104528, 121869, 139173, 156434,
	173648, 190809, 207912, 224951, 241922, 258819, 275637, 292372, 309017,
	325568, 342020, 358368, 374607, 390731, 406737, 422618, 438371, 453990,
	469472, 484810, 500000, 515038, 529919, 544639, 559193, 573576, 587785,
	601815, 615661, 629320, 642788, 656059, 669131, 681998, 694658, 707107,
	719340, 731354, 743145, 754710, 766044, 777146, 788011, 798636, 809017,
	819152, 829038, 838671, 848048, 857167, 866025, 874620, 882948, 891007,
	898794, 906308, 913545, 920505, 927184, 933580, 939693, 945519, 951057,
	956305, 961262, 965926, 970296, 974370, 978148, 981627, 984808, 987688,
	990268, 992546, 994522, 996195, 997564, 998630, 999391, 999848, 1000000,
})

// Sin returns sin(2*pi*theta) for theta in turns, as an exact rational in
// [-1, 1].
func Sin(theta *big.Rat) *big.Rat {
	return SineTable.EvalNormalizedTurn(theta)
}

// Cos returns cos(2*pi*theta) for theta in turns, as an exact rational in
// [-1, 1].
func Cos(theta *big.Rat) *big.Rat {
	return SineTable.EvalNormalizedTurn(Sub(R(1, 4), theta))
}
