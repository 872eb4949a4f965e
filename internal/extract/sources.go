package extract

// sourceEntry maps a domain substring to its tag list and display name.
type sourceEntry struct {
	key  string
	tags []string
	name string
}

// defaultSourceTable classifies the allowlisted news publishers. Order
// matters: the first key that is a substring of the host wins.
var defaultSourceTable = []sourceEntry{
	{"thedailystar.net", []string{"news", "bangladesh"}, "The Daily Star"},
	{"prothomalo.com", []string{"news", "bangla"}, "Prothom Alo"},
	{"dhakatribune.com", []string{"news", "bd"}, "Dhaka Tribune"},
	{"bdnews24.com", []string{"news", "bd"}, "bdnews24.com"},
	{"bbc.com", []string{"news", "global"}, "BBC"},
	{"nytimes.com", []string{"news", "us"}, "The New York Times"},
	{"aljazeera.com", []string{"news", "middle-east"}, "Al Jazeera"},
	{"reuters.com", []string{"news", "finance"}, "Reuters"},
	{"un.org", []string{"global", "policy"}, "United Nations"},
	{"who.int", []string{"health", "global"}, "World Health Organization"},
}
