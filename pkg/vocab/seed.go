package vocab

// SeedEntries is the deterministic starter collection used when a learner
// has no stored bank or the stored blob cannot be parsed.
func SeedEntries() []Entry {
	return []Entry{
		{Headword: "hello", Example: "She said hello to everyone.", Version: 1},
		{Headword: "world", Example: "The world is round.", Version: 1},
		{Headword: "react", Example: "I use React for web apps.", Version: 1},
		{Headword: "dashboard", Example: "The dashboard shows your stats.", Version: 1},
	}
}
