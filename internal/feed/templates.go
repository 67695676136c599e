package feed

// templates holds the fixed pools, eight per tone.
var templates = map[Tone][]Post{
	TonePositive: {
		{Emoji: "🌻", Title: "Local Garden Blooms", Content: "Community garden produces record harvest for food bank", Intensity: IntensityLow, Topic: "community"},
		{Emoji: "🎨", Title: "Street Art Festival", Content: "Artists transform abandoned buildings into galleries", Intensity: IntensityMedium, Topic: "culture"},
		{Emoji: "🤝", Title: "Unity March Success", Content: "Diverse groups come together for peaceful demonstration", Intensity: IntensityHigh, Topic: TopicPolitics},
		{Emoji: "🏥", Title: "Free Health Clinic Opens", Content: "Volunteers provide care to underserved communities", Intensity: IntensityMedium, Topic: "health"},
		{Emoji: "📚", Title: "Library Saves Programs", Content: "Crowdfunding keeps children's literacy programs alive", Intensity: IntensityLow, Topic: "education"},
		{Emoji: "🌳", Title: "Park Cleanup Success", Content: "500 volunteers restore city's largest green space", Intensity: IntensityMedium, Topic: "environment"},
		{Emoji: "🎭", Title: "Theater Goes Free", Content: "Local theater offers free shows to unemployed residents", Intensity: IntensityLow, Topic: "culture"},
		{Emoji: "🏘️", Title: "Neighbors Help Neighbors", Content: "Community creates mutual aid network during crisis", Intensity: IntensityHigh, Topic: "community"},
	},
	ToneNegative: {
		{Emoji: "🔥", Title: "Factory Fire Downtown", Content: "Emergency crews battle blaze, residents evacuated", Intensity: IntensityHigh, Topic: "disaster"},
		{Emoji: "💰", Title: "Corruption Scandal", Content: "City officials accused of embezzling public funds", Intensity: IntensityHigh, Topic: TopicPolitics},
		{Emoji: "🚨", Title: "Crime Wave Continues", Content: "Break-ins increase 40% in residential areas", Intensity: IntensityMedium, Topic: "crime"},
		{Emoji: "🏭", Title: "Factory Closing", Content: "500 jobs lost as major employer shuts down", Intensity: IntensityHigh, Topic: "economy"},
		{Emoji: "🌡️", Title: "Heatwave Warning", Content: "Record temperatures threaten vulnerable populations", Intensity: IntensityMedium, Topic: "environment"},
		{Emoji: "⚠️", Title: "Bridge Collapse Risk", Content: "Engineers warn of structural failures in infrastructure", Intensity: IntensityHigh, Topic: "infrastructure"},
		{Emoji: "📉", Title: "Housing Crisis Deepens", Content: "Rent prices force families from their homes", Intensity: IntensityMedium, Topic: "economy"},
		{Emoji: "🗳️", Title: "Election Fraud Claims", Content: "Opposition parties allege voter suppression", Intensity: IntensityHigh, Topic: TopicPolitics},
	},
	ToneNeutral: {
		{Emoji: "🚧", Title: "Road Work Scheduled", Content: "Main street repairs to begin next week", Intensity: IntensityLow, Topic: "infrastructure"},
		{Emoji: "⚽", Title: "Local Team Wins", Content: "City celebrates championship victory", Intensity: IntensityLow, Topic: "sports"},
		{Emoji: "☔", Title: "Weather Update", Content: "Light rain expected through weekend", Intensity: IntensityLow, Topic: "weather"},
		{Emoji: "🎪", Title: "Circus Coming to Town", Content: "Family entertainment arrives next month", Intensity: IntensityLow, Topic: "entertainment"},
		{Emoji: "📊", Title: "Census Results", Content: "Population grows by 3% over last decade", Intensity: IntensityLow, Topic: "demographics"},
		{Emoji: "🚌", Title: "Bus Route Changes", Content: "Public transit adjusts schedules for efficiency", Intensity: IntensityLow, Topic: "transport"},
		{Emoji: "🏛️", Title: "Museum Reopens", Content: "Historical exhibits return after renovations", Intensity: IntensityLow, Topic: "culture"},
		{Emoji: "📱", Title: "5G Network Expands", Content: "Faster internet coming to more neighborhoods", Intensity: IntensityLow, Topic: "technology"},
	},
}

// Templates returns a copy of the pool for a tone.
func Templates(t Tone) []Post {
	pool := templates[t]
	out := make([]Post, len(pool))
	for i, p := range pool {
		p.Tone = t
		out[i] = p
	}
	return out
}
