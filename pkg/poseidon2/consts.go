package poseidon2

import "github.com/shardmesh/shardmesh/pkg/field"

// Width is the Poseidon2 state width used throughout this package: 16
// Mersenne-31 field elements.
const Width = 16

// SboxDegree is the exponent of the S-box applied in every full round and
// to the single active element of every partial round.
const SboxDegree = 5

// RoundsF is the number of full (external) rounds, split evenly before and
// after the partial-round block.
const RoundsF = 8

// RoundsP is the number of partial (internal) rounds.
const RoundsP = 14

// externalConstants holds the per-round additive constants for the 8 full
// rounds, one row of 16 per round.
var externalConstants = [RoundsF][Width]uint32{
	{1428922684, 2022196109, 1224505130, 984282662, 1745528643, 1884925147, 1845326973, 976109012,
		364320740, 1169816424, 1266509633, 1147500482, 804946803, 1336891277, 1923680287, 1051112063},
	{617202902, 1328322895, 809658739, 728996169, 367124292, 1183101044, 2017892963, 797916161,
		1689484235, 1657723214, 1725191991, 607916694, 304711241, 991633463, 1341032671, 1455985172},
	{940327040, 1836866420, 1744330360, 1728313833, 1256787822, 143243872, 394906775, 93462334,
		2095314515, 1438973973, 1925653183, 1615496024, 772213231, 1188568581, 411016683, 452512591},
	{913633223, 1119952228, 2147150098, 1631257849, 722026530, 51210008, 669586161, 391858424,
		1872572836, 1530649179, 1905358042, 712337723, 273042458, 143817816, 2105695752, 418301610},
	{760850064, 724582512, 1175911295, 1686822328, 1838736009, 1027362987, 45299051, 326225160,
		1722439737, 202954879, 433482402, 717784287, 957447280, 2072056797, 1476433164, 1961211085},
	{1402211604, 2047616321, 1725105359, 1403872103, 636199198, 711763034, 755524500, 1146269098,
		440942860, 172467545, 1346808457, 680815102, 1145397703, 493957525, 1518357280, 811756323},
	{1599785888, 384859669, 1834738991, 349292068, 1562910107, 469337841, 854962023, 1219794154,
		614870544, 533548718, 764382489, 609018108, 1175651676, 533401582, 208843075, 346968022},
	{135087855, 1018564082, 356040847, 6921173, 865613739, 1401029826, 1157587805, 1694194150,
		1896880238, 88368571, 1349348652, 2027358192, 380015572, 1749008219, 245097507, 345502684},
}

// internalConstants holds the single additive constant applied to state[0]
// in each of the 14 partial rounds.
var internalConstants = [RoundsP]uint32{
	1868136170, 1684664724, 983679023, 1891357693, 1891456615, 476121283, 1059854491, 1061508892,
	272841724, 1160904394, 1037633668, 1955898504, 892602345, 2104815485,
}

// internalDiag is the diagonal of the internal (partial) round linear layer,
// M_I = diag(internalDiag) + J (the all-ones matrix). The -2 entry and the
// small-power-of-two entries follow the Poseidon2 paper's recommendation for
// an efficiently-computable, invertible internal matrix; spec.md does not
// pin these values down (see DESIGN.md).
var internalDiag = [Width]field.Elem{
	field.New(field.P - 2), field.New(1), field.New(2), field.New(4),
	field.New(8), field.New(16), field.New(32), field.New(64),
	field.New(128), field.New(256), field.New(512), field.New(1024),
	field.New(2048), field.New(4096), field.New(8192), field.New(16384),
}

func externalConstantsField() [RoundsF][Width]field.Elem {
	var out [RoundsF][Width]field.Elem
	for r := 0; r < RoundsF; r++ {
		for i := 0; i < Width; i++ {
			out[r][i] = field.New(externalConstants[r][i])
		}
	}
	return out
}

func internalConstantsField() [RoundsP]field.Elem {
	var out [RoundsP]field.Elem
	for r := 0; r < RoundsP; r++ {
		out[r] = field.New(internalConstants[r])
	}
	return out
}
