package growth

// WHO Child Growth Standards LMS parameters. Age tables are keyed by month
// (0-12 monthly, then 18, 24, 36, 48, 60); weight-for-length by cm in steps of 5.

// Weight-for-age, kg.
var weightForAgeBoys = table{
	{0, LMS{L: 0.3487, M: 3.3464, S: 0.14602}},
	{1, LMS{L: 0.2297, M: 4.4709, S: 0.13395}},
	{2, LMS{L: 0.1970, M: 5.5675, S: 0.12385}},
	{3, LMS{L: 0.1738, M: 6.3762, S: 0.11727}},
	{4, LMS{L: 0.1553, M: 7.0023, S: 0.11316}},
	{5, LMS{L: 0.1395, M: 7.5105, S: 0.11080}},
	{6, LMS{L: 0.1257, M: 7.9340, S: 0.10958}},
	{7, LMS{L: 0.1134, M: 8.2970, S: 0.10902}},
	{8, LMS{L: 0.1021, M: 8.6151, S: 0.10882}},
	{9, LMS{L: 0.0917, M: 8.9014, S: 0.10882}},
	{10, LMS{L: 0.0820, M: 9.1649, S: 0.10891}},
	{11, LMS{L: 0.0730, M: 9.4122, S: 0.10906}},
	{12, LMS{L: 0.0644, M: 9.6479, S: 0.10925}},
	{18, LMS{L: 0.0308, M: 10.8500, S: 0.11037}},
	{24, LMS{L: 0.0128, M: 12.1515, S: 0.11273}},
	{36, LMS{L: -0.0056, M: 14.3439, S: 0.11668}},
	{48, LMS{L: -0.0160, M: 16.3396, S: 0.12014}},
	{60, LMS{L: -0.0220, M: 18.3690, S: 0.12403}},
}

var weightForAgeGirls = table{
	{0, LMS{L: 0.3809, M: 3.2322, S: 0.14171}},
	{1, LMS{L: 0.1714, M: 4.1873, S: 0.13724}},
	{2, LMS{L: 0.0962, M: 5.1282, S: 0.12886}},
	{3, LMS{L: 0.0402, M: 5.8458, S: 0.12267}},
	{4, LMS{L: -0.0044, M: 6.4237, S: 0.11850}},
	{5, LMS{L: -0.0413, M: 6.8985, S: 0.11615}},
	{6, LMS{L: -0.0727, M: 7.2970, S: 0.11486}},
	{7, LMS{L: -0.1001, M: 7.6422, S: 0.11426}},
	{8, LMS{L: -0.1243, M: 7.9487, S: 0.11403}},
	{9, LMS{L: -0.1458, M: 8.2254, S: 0.11404}},
	{10, LMS{L: -0.1651, M: 8.4800, S: 0.11419}},
	{11, LMS{L: -0.1826, M: 8.7186, S: 0.11444}},
	{12, LMS{L: -0.1984, M: 8.9481, S: 0.11474}},
	{18, LMS{L: -0.2666, M: 10.1742, S: 0.11693}},
	{24, LMS{L: -0.3044, M: 11.5017, S: 0.11962}},
	{36, LMS{L: -0.3370, M: 13.9174, S: 0.12432}},
	{48, LMS{L: -0.3455, M: 16.0692, S: 0.12800}},
	{60, LMS{L: -0.3330, M: 18.2602, S: 0.13195}},
}

// Length/height-for-age, cm.
var lengthForAgeBoys = table{
	{0, LMS{L: 1.0, M: 49.8842, S: 0.03795}},
	{1, LMS{L: 1.0, M: 54.7244, S: 0.03557}},
	{2, LMS{L: 1.0, M: 58.4249, S: 0.03424}},
	{3, LMS{L: 1.0, M: 61.4292, S: 0.03328}},
	{4, LMS{L: 1.0, M: 63.8860, S: 0.03257}},
	{5, LMS{L: 1.0, M: 65.9026, S: 0.03204}},
	{6, LMS{L: 1.0, M: 67.6236, S: 0.03162}},
	{7, LMS{L: 1.0, M: 69.1645, S: 0.03128}},
	{8, LMS{L: 1.0, M: 70.5994, S: 0.03100}},
	{9, LMS{L: 1.0, M: 71.9687, S: 0.03076}},
	{10, LMS{L: 1.0, M: 73.2812, S: 0.03056}},
	{11, LMS{L: 1.0, M: 74.5378, S: 0.03039}},
	{12, LMS{L: 1.0, M: 75.7488, S: 0.03024}},
	{18, LMS{L: 1.0, M: 81.7058, S: 0.02955}},
	{24, LMS{L: 1.0, M: 87.1161, S: 0.02899}},
	{36, LMS{L: 1.0, M: 96.0833, S: 0.02858}},
	{48, LMS{L: 1.0, M: 103.3162, S: 0.02823}},
	{60, LMS{L: 1.0, M: 109.9090, S: 0.02802}},
}

var lengthForAgeGirls = table{
	{0, LMS{L: 1.0, M: 49.1477, S: 0.03790}},
	{1, LMS{L: 1.0, M: 53.6872, S: 0.03614}},
	{2, LMS{L: 1.0, M: 57.0673, S: 0.03502}},
	{3, LMS{L: 1.0, M: 59.8029, S: 0.03420}},
	{4, LMS{L: 1.0, M: 62.0899, S: 0.03361}},
	{5, LMS{L: 1.0, M: 64.0301, S: 0.03316}},
	{6, LMS{L: 1.0, M: 65.7311, S: 0.03283}},
	{7, LMS{L: 1.0, M: 67.2873, S: 0.03258}},
	{8, LMS{L: 1.0, M: 68.7498, S: 0.03237}},
	{9, LMS{L: 1.0, M: 70.1435, S: 0.03220}},
	{10, LMS{L: 1.0, M: 71.4818, S: 0.03207}},
	{11, LMS{L: 1.0, M: 72.7714, S: 0.03196}},
	{12, LMS{L: 1.0, M: 74.0153, S: 0.03187}},
	{18, LMS{L: 1.0, M: 80.2164, S: 0.03143}},
	{24, LMS{L: 1.0, M: 85.7153, S: 0.03101}},
	{36, LMS{L: 1.0, M: 95.0569, S: 0.03041}},
	{48, LMS{L: 1.0, M: 102.6812, S: 0.02997}},
	{60, LMS{L: 1.0, M: 109.4343, S: 0.02975}},
}

// Weight-for-length/height, 45-120 cm.
var weightForLengthBoys = table{
	{45, LMS{L: 0.2581, M: 2.4410, S: 0.09182}},
	{50, LMS{L: 0.1803, M: 3.4372, S: 0.08854}},
	{55, LMS{L: 0.1373, M: 4.5896, S: 0.08621}},
	{60, LMS{L: 0.1069, M: 5.8775, S: 0.08488}},
	{65, LMS{L: 0.0824, M: 7.2842, S: 0.08475}},
	{70, LMS{L: 0.0608, M: 8.7061, S: 0.08594}},
	{75, LMS{L: 0.0405, M: 10.0588, S: 0.08832}},
	{80, LMS{L: 0.0206, M: 11.3018, S: 0.09151}},
	{85, LMS{L: 0.0003, M: 12.5125, S: 0.09507}},
	{90, LMS{L: -0.0207, M: 13.7422, S: 0.09877}},
	{95, LMS{L: -0.0424, M: 15.0299, S: 0.10260}},
	{100, LMS{L: -0.0643, M: 16.3847, S: 0.10647}},
	{105, LMS{L: -0.0858, M: 17.8181, S: 0.11035}},
	{110, LMS{L: -0.1063, M: 19.3451, S: 0.11421}},
	{115, LMS{L: -0.1254, M: 21.0008, S: 0.11793}},
	{120, LMS{L: -0.1420, M: 22.8256, S: 0.12130}},
}

var weightForLengthGirls = table{
	{45, LMS{L: 0.1391, M: 2.4607, S: 0.09115}},
	{50, LMS{L: 0.0453, M: 3.4054, S: 0.08957}},
	{55, LMS{L: -0.0219, M: 4.4985, S: 0.08843}},
	{60, LMS{L: -0.0716, M: 5.7337, S: 0.08771}},
	{65, LMS{L: -0.1106, M: 7.0823, S: 0.08743}},
	{70, LMS{L: -0.1428, M: 8.4642, S: 0.08785}},
	{75, LMS{L: -0.1706, M: 9.8063, S: 0.08919}},
	{80, LMS{L: -0.1957, M: 11.0872, S: 0.09133}},
	{85, LMS{L: -0.2193, M: 12.3331, S: 0.09417}},
	{90, LMS{L: -0.2420, M: 13.5878, S: 0.09758}},
	{95, LMS{L: -0.2645, M: 14.9058, S: 0.10138}},
	{100, LMS{L: -0.2874, M: 16.3271, S: 0.10539}},
	{105, LMS{L: -0.3110, M: 17.8817, S: 0.10953}},
	{110, LMS{L: -0.3353, M: 19.5893, S: 0.11375}},
	{115, LMS{L: -0.3597, M: 21.4762, S: 0.11791}},
	{120, LMS{L: -0.3830, M: 23.5590, S: 0.12177}},
}

// BMI-for-age, kg/m².
var bmiForAgeBoys = table{
	{0, LMS{L: -0.3053, M: 13.4069, S: 0.09593}},
	{1, LMS{L: 0.2441, M: 14.9445, S: 0.08921}},
	{2, LMS{L: 0.4670, M: 16.3055, S: 0.08553}},
	{3, LMS{L: 0.5434, M: 16.9031, S: 0.08353}},
	{4, LMS{L: 0.5635, M: 17.1773, S: 0.08227}},
	{5, LMS{L: 0.5595, M: 17.2749, S: 0.08136}},
	{6, LMS{L: 0.5442, M: 17.2875, S: 0.08065}},
	{7, LMS{L: 0.5228, M: 17.2495, S: 0.08009}},
	{8, LMS{L: 0.4977, M: 17.1839, S: 0.07964}},
	{9, LMS{L: 0.4705, M: 17.1034, S: 0.07929}},
	{10, LMS{L: 0.4420, M: 17.0144, S: 0.07902}},
	{11, LMS{L: 0.4129, M: 16.9218, S: 0.07882}},
	{12, LMS{L: 0.3835, M: 16.8290, S: 0.07868}},
	{18, LMS{L: 0.2267, M: 16.2597, S: 0.07879}},
	{24, LMS{L: 0.0964, M: 16.0177, S: 0.07993}},
	{36, LMS{L: -0.1042, M: 15.5341, S: 0.08379}},
	{48, LMS{L: -0.2565, M: 15.3199, S: 0.08853}},
	{60, LMS{L: -0.3729, M: 15.2447, S: 0.09384}},
}

var bmiForAgeGirls = table{
	{0, LMS{L: -0.0631, M: 13.3363, S: 0.09262}},
	{1, LMS{L: 0.3464, M: 14.5679, S: 0.09050}},
	{2, LMS{L: 0.4935, M: 15.7746, S: 0.08757}},
	{3, LMS{L: 0.5400, M: 16.3588, S: 0.08607}},
	{4, LMS{L: 0.5511, M: 16.6444, S: 0.08503}},
	{5, LMS{L: 0.5484, M: 16.7685, S: 0.08412}},
	{6, LMS{L: 0.5390, M: 16.7924, S: 0.08326}},
	{7, LMS{L: 0.5255, M: 16.7566, S: 0.08248}},
	{8, LMS{L: 0.5093, M: 16.6828, S: 0.08181}},
	{9, LMS{L: 0.4914, M: 16.5859, S: 0.08124}},
	{10, LMS{L: 0.4721, M: 16.4763, S: 0.08079}},
	{11, LMS{L: 0.4520, M: 16.3606, S: 0.08043}},
	{12, LMS{L: 0.4313, M: 16.2429, S: 0.08014}},
	{18, LMS{L: 0.3041, M: 15.7993, S: 0.07915}},
	{24, LMS{L: 0.1857, M: 15.7019, S: 0.07962}},
	{36, LMS{L: -0.0095, M: 15.4283, S: 0.08262}},
	{48, LMS{L: -0.1635, M: 15.3215, S: 0.08698}},
	{60, LMS{L: -0.2793, M: 15.3032, S: 0.09197}},
}

// Head circumference-for-age, cm.
var headForAgeBoys = table{
	{0, LMS{L: 1.0, M: 34.4618, S: 0.03686}},
	{1, LMS{L: 1.0, M: 37.2759, S: 0.03133}},
	{2, LMS{L: 1.0, M: 39.1285, S: 0.02997}},
	{3, LMS{L: 1.0, M: 40.5135, S: 0.02918}},
	{4, LMS{L: 1.0, M: 41.6317, S: 0.02868}},
	{5, LMS{L: 1.0, M: 42.5576, S: 0.02837}},
	{6, LMS{L: 1.0, M: 43.3306, S: 0.02817}},
	{7, LMS{L: 1.0, M: 43.9803, S: 0.02804}},
	{8, LMS{L: 1.0, M: 44.5300, S: 0.02796}},
	{9, LMS{L: 1.0, M: 44.9998, S: 0.02792}},
	{10, LMS{L: 1.0, M: 45.4051, S: 0.02789}},
	{11, LMS{L: 1.0, M: 45.7573, S: 0.02788}},
	{12, LMS{L: 1.0, M: 46.0661, S: 0.02789}},
	{18, LMS{L: 1.0, M: 47.1044, S: 0.02801}},
	{24, LMS{L: 1.0, M: 47.8802, S: 0.02816}},
	{36, LMS{L: 1.0, M: 49.0053, S: 0.02860}},
	{48, LMS{L: 1.0, M: 49.7843, S: 0.02893}},
	{60, LMS{L: 1.0, M: 50.3826, S: 0.02917}},
}

var headForAgeGirls = table{
	{0, LMS{L: 1.0, M: 33.8787, S: 0.03496}},
	{1, LMS{L: 1.0, M: 36.5463, S: 0.03094}},
	{2, LMS{L: 1.0, M: 38.2521, S: 0.02970}},
	{3, LMS{L: 1.0, M: 39.5328, S: 0.02898}},
	{4, LMS{L: 1.0, M: 40.5817, S: 0.02852}},
	{5, LMS{L: 1.0, M: 41.4590, S: 0.02821}},
	{6, LMS{L: 1.0, M: 42.1995, S: 0.02799}},
	{7, LMS{L: 1.0, M: 42.8290, S: 0.02784}},
	{8, LMS{L: 1.0, M: 43.3671, S: 0.02773}},
	{9, LMS{L: 1.0, M: 43.8299, S: 0.02766}},
	{10, LMS{L: 1.0, M: 44.2319, S: 0.02761}},
	{11, LMS{L: 1.0, M: 44.5844, S: 0.02758}},
	{12, LMS{L: 1.0, M: 44.8965, S: 0.02757}},
	{18, LMS{L: 1.0, M: 45.9831, S: 0.02762}},
	{24, LMS{L: 1.0, M: 46.8042, S: 0.02778}},
	{36, LMS{L: 1.0, M: 47.9869, S: 0.02828}},
	{48, LMS{L: 1.0, M: 48.7919, S: 0.02867}},
	{60, LMS{L: 1.0, M: 49.4110, S: 0.02897}},
}
