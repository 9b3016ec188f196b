package inflation

// ukRates are annual UK consumer price inflation rates in percent.
// Source: https://www.worlddata.info/europe/united-kingdom/inflation-rates.php
var ukRates = map[int]float64{
	2022: 7.92,
	2021: 2.52,
	2020: 0.99,
	2019: 1.74,
	2018: 2.29,
	2017: 2.56,
	2016: 1.01,
	2015: 0.37,
	2014: 1.45,
	2013: 2.29,
	2012: 2.57,
	2011: 3.86,
	2010: 2.49,
	2009: 1.96,
	2008: 3.52,
	2007: 2.39,
	2006: 2.46,
	2005: 2.09,
	2004: 1.39,
	2003: 1.38,
	2002: 1.52,
	2001: 1.53,
	2000: 1.18,
	1999: 1.75,
	1998: 1.82,
	1997: 2.20,
	1996: 2.85,
	1995: 2.70,
	1994: 2.22,
	1993: 2.56,
	1992: 4.59,
	1991: 7.46,
	1990: 8.06,
	1989: 5.76,
	1988: 4.16,
	1987: 4.15,
	1986: 3.43,
	1985: 6.07,
	1984: 4.96,
	1983: 4.61,
	1982: 8.60,
	1981: 11.88,
	1980: 17.97,
	1979: 13.42,
	1978: 8.26,
	1977: 15.84,
	1976: 16.56,
	1975: 24.21,
	1974: 16.04,
	1973: 9.20,
	1972: 7.07,
	1971: 9.44,
	1970: 6.37,
	1969: 5.45,
	1968: 4.70,
	1967: 2.48,
	1966: 3.91,
	1965: 4.77,
	1964: 3.28,
	1963: 2.02,
	1962: 4.20,
	1961: 3.45,
	1960: 1.00,
}
