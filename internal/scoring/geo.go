package scoring

import (
	"fmt"
	"math"
	"strings"
)

// countryMainAirports maps ISO-2 country codes to the main international
// airport used for distance and price estimation.
var countryMainAirports = map[string]string{
	// Europe
	"FR": "CDG", "ES": "MAD", "IT": "FCO", "PT": "LIS", "DE": "FRA",
	"GB": "LHR", "NL": "AMS", "BE": "BRU", "AT": "VIE", "CH": "ZRH",
	"GR": "ATH", "HR": "ZAG", "CZ": "PRG", "PL": "WAW", "HU": "BUD",
	"IE": "DUB", "DK": "CPH", "SE": "ARN", "NO": "OSL", "FI": "HEL",
	"RO": "OTP", "SK": "BTS", "SI": "LJU", "BA": "SJJ", "LU": "LUX",
	"LV": "RIX",
	// Asia & Middle East
	"TH": "BKK", "VN": "SGN", "JP": "NRT", "KR": "ICN", "CN": "PEK",
	"HK": "HKG", "SG": "SIN", "MY": "KUL", "ID": "DPS", "PH": "MNL",
	"IN": "DEL", "LK": "CMB", "NP": "KTM", "AE": "DXB", "TR": "IST",
	"IL": "TLV", "JO": "AMM", "TW": "TPE", "LA": "VTE", "MM": "RGN",
	"UZ": "TAS", "KZ": "NQZ", "SA": "RUH", "OM": "MCT", "QA": "DOH",
	"BH": "BAH",
	// Americas
	"US": "JFK", "CA": "YYZ", "MX": "MEX", "BR": "GRU", "AR": "EZE",
	"CL": "SCL", "PE": "LIM", "CO": "BOG", "CR": "SJO", "PA": "PTY",
	"CU": "HAV", "DO": "PUJ", "JM": "MBJ", "EC": "UIO", "BO": "LPB",
	"UY": "MVD", "GT": "GUA", "HN": "SAP", "NI": "MGA",
	// Africa
	"MA": "CMN", "EG": "CAI", "ZA": "JNB", "KE": "NBO", "TZ": "DAR",
	"TN": "TUN", "MU": "MRU", "SC": "SEZ", "SN": "DSS", "GH": "ACC",
	"RW": "KGL", "UG": "EBB", "ET": "ADD", "NA": "WDH", "BW": "GBE",
	"MZ": "MPM", "MG": "TNR",
	// Oceania & islands
	"AU": "SYD", "NZ": "AKL", "FJ": "NAN", "PF": "PPT", "WS": "APW",
	"VU": "VLI", "NC": "NOU", "TO": "TBU", "MV": "MLE", "CY": "LCA",
	"MT": "MLA", "IS": "KEF", "CV": "SID",
}

// airportCoordinates holds (lat, lng) for each main airport.
var airportCoordinates = map[string]Coordinates{
	// Europe
	"CDG": {49.0097, 2.5479}, "MAD": {40.4983, -3.5676}, "FCO": {41.8003, 12.2389},
	"LIS": {38.7813, -9.1359}, "FRA": {50.0379, 8.5622}, "LHR": {51.4700, -0.4543},
	"AMS": {52.3105, 4.7683}, "ATH": {37.9364, 23.9445}, "VIE": {48.1103, 16.5697},
	"ZRH": {47.4647, 8.5492}, "BRU": {50.9014, 4.4844}, "PRG": {50.1008, 14.2600},
	"WAW": {52.1657, 20.9671}, "BUD": {47.4369, 19.2556}, "DUB": {53.4264, -6.2499},
	"CPH": {55.6180, 12.6508}, "ARN": {59.6519, 17.9186}, "OSL": {60.1939, 11.1004},
	"HEL": {60.3172, 24.9633}, "IST": {41.2753, 28.7519}, "ZAG": {45.7430, 16.0688},
	"OTP": {44.5711, 26.0850}, "BTS": {48.1702, 17.2127}, "LJU": {46.2237, 14.4576},
	"SJJ": {43.8246, 18.3315}, "LUX": {49.6233, 6.2044}, "RIX": {56.9236, 23.9711},
	// Asia & Middle East
	"BKK": {13.6900, 100.7501}, "SGN": {10.8188, 106.6520}, "NRT": {35.7720, 140.3929},
	"ICN": {37.4602, 126.4407}, "PEK": {40.0799, 116.6031}, "HKG": {22.3080, 113.9185},
	"SIN": {1.3644, 103.9915}, "KUL": {2.7456, 101.7099}, "DPS": {-8.7482, 115.1675},
	"MNL": {14.5086, 121.0198}, "DEL": {28.5562, 77.1000}, "CMB": {7.1808, 79.8841},
	"KTM": {27.6966, 85.3591}, "DXB": {25.2532, 55.3657}, "TLV": {32.0055, 34.8854},
	"AMM": {31.7226, 35.9932}, "TPE": {25.0797, 121.2342}, "VTE": {17.9883, 102.5633},
	"RGN": {16.9073, 96.1332}, "TAS": {41.2579, 69.2817}, "NQZ": {51.0222, 71.4669},
	"RUH": {24.9576, 46.6988}, "MCT": {23.5933, 58.2844}, "DOH": {25.2731, 51.6081},
	"BAH": {26.2708, 50.6336},
	// Americas
	"JFK": {40.6413, -73.7781}, "YYZ": {43.6777, -79.6248}, "MEX": {19.4363, -99.0721},
	"GRU": {-23.4356, -46.4731}, "EZE": {-34.8222, -58.5358}, "SCL": {-33.3930, -70.7858},
	"LIM": {-12.0219, -77.1143}, "BOG": {4.7016, -74.1469}, "SJO": {9.9939, -84.2088},
	"HAV": {22.9892, -82.4091}, "PUJ": {18.5674, -68.3634}, "PTY": {9.0714, -79.3835},
	"MBJ": {18.5037, -77.9134}, "UIO": {-0.1292, -78.3575}, "LPB": {-16.5133, -68.1922},
	"MVD": {-34.8381, -56.0308}, "GUA": {14.5833, -90.5275}, "SAP": {15.4526, -87.9236},
	"MGA": {12.1415, -86.1682},
	// Africa
	"CMN": {33.3675, -7.5899}, "CAI": {30.1219, 31.4056}, "JNB": {-26.1392, 28.2460},
	"NBO": {-1.3192, 36.9278}, "TUN": {36.8510, 10.2272}, "MRU": {-20.4302, 57.6836},
	"SEZ": {-4.6743, 55.5218}, "DAR": {-6.8781, 39.2026}, "DSS": {14.7397, -17.4902},
	"SID": {16.7414, -22.9494}, "ACC": {5.6052, -0.1668}, "KGL": {-1.9686, 30.1395},
	"EBB": {0.0424, 32.4435}, "ADD": {8.9779, 38.7993}, "WDH": {-22.4799, 17.4709},
	"GBE": {-24.5553, 25.9181}, "MPM": {-25.9208, 32.5726}, "TNR": {-18.7969, 47.4788},
	// Oceania & islands
	"SYD": {-33.9399, 151.1753}, "AKL": {-37.0082, 174.7850}, "NAN": {-17.7554, 177.4434},
	"PPT": {-17.5537, -149.6068}, "APW": {-13.8297, -171.9972}, "VLI": {-17.6993, 168.3199},
	"NOU": {-22.0146, 166.2129}, "TBU": {-21.2411, -175.1497}, "MLE": {4.1918, 73.5290},
	"LCA": {34.8751, 33.6249}, "MLA": {35.8575, 14.4775}, "KEF": {63.9850, -22.6056},
}

// MainAirport returns the IATA code of a country's main airport.
func MainAirport(countryCode string) (string, bool) {
	iata, ok := countryMainAirports[strings.ToUpper(countryCode)]
	return iata, ok
}

// MainAirportCoords returns the coordinates of a country's main airport.
func MainAirportCoords(countryCode string) (Coordinates, bool) {
	iata, ok := countryMainAirports[strings.ToUpper(countryCode)]
	if !ok {
		return Coordinates{}, false
	}
	coords, ok := airportCoordinates[iata]
	return coords, ok
}

// AirportCoords returns the coordinates of a known main airport by IATA code.
func AirportCoords(iata string) (Coordinates, bool) {
	coords, ok := airportCoordinates[strings.ToUpper(iata)]
	return coords, ok
}

const earthRadiusKm = 6371

// Haversine returns the great-circle distance between two points in km.
func Haversine(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// FlightHours estimates one-way flight time for a distance: cruise at
// 800 km/h plus 45 minutes of overhead, never under one hour.
func FlightHours(distanceKm float64) float64 {
	hours := distanceKm/800 + 0.75
	if hours < 1 {
		return 1
	}
	return hours
}

// FormatFlightDuration renders an estimated flight time as "2h45" or "3h".
func FormatFlightDuration(distanceKm float64) string {
	totalMinutes := int(math.Round(FlightHours(distanceKm) * 60))
	h := totalMinutes / 60
	m := totalMinutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%02d", h, m)
}
