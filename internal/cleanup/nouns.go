package cleanup

// Built-in proper-noun word lists. Each entry maps a lowercase trigger to its
// canonical casing via [NewRegistry]; users extend the set at runtime through
// [Registry.AddNouns].

var daysOfWeek = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var commonFirstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Christopher", "Karen", "Charles",
	"Daniel", "Matthew", "Anthony", "Mark", "Donald", "Steven", "Andrew",
	"Paul", "Joshua", "Kenneth", "Kevin", "Brian", "George", "Timothy",
	"Nancy", "Lisa", "Betty", "Margaret", "Sandra", "Ashley", "Dorothy",
	"Kimberly", "Emily", "Donna", "Michelle", "Carol", "Amanda", "Melissa",
	"Deborah", "Stephanie", "Rebecca", "Sharon", "Laura", "Cynthia",
	"Kathleen", "Amy", "Angela", "Shirley", "Anna", "Brenda", "Pamela",
	"Emma", "Nicole", "Helen", "Samantha", "Katherine", "Christine",
	"Hannah", "Rachel", "Carolyn", "Janet", "Catherine", "Maria",
	"Heather", "Diane", "Ruth", "Julie", "Olivia", "Joyce", "Virginia",
	"Victoria", "Kelly", "Lauren", "Christina", "Joan", "Evelyn", "Judith",
	"Andrea", "Megan", "Cheryl", "Jacqueline", "Teresa",
	"Alice", "Martha", "Ann", "Gloria", "Kathryn", "Marie",
	"Peter", "Ryan", "Jason", "Gary", "Jeff", "Eric", "Stephen",
	"Larry", "Justin", "Scott", "Brandon", "Benjamin", "Samuel",
	"Raymond", "Gregory", "Frank", "Alexander", "Patrick", "Jack",
	"Dennis", "Jerry", "Tyler", "Aaron", "Jose", "Nathan", "Henry",
	"Adam", "Douglas", "Zachary", "Harold", "Carl", "Arthur",
	"Dylan", "Ethan", "Noah", "Logan", "Lucas", "Aiden", "Liam",
	"Mason", "Elijah", "Owen", "Sebastian", "Gabriel", "Carter",
	"Jayden", "Luke", "Isaac",
}

// brandNames maps lowercase triggers to casings that plain
// first-letter-capitalisation cannot produce (iPhone, GitHub, macOS).
var brandNames = map[string]string{
	"iphone":     "iPhone",
	"ipad":       "iPad",
	"ipod":       "iPod",
	"imac":       "iMac",
	"ios":        "iOS",
	"ipados":     "iPadOS",
	"macos":      "macOS",
	"watchos":    "watchOS",
	"tvos":       "tvOS",
	"visionos":   "visionOS",
	"airpods":    "AirPods",
	"macbook":    "MacBook",
	"google":     "Google",
	"gmail":      "Gmail",
	"youtube":    "YouTube",
	"android":    "Android",
	"chromebook": "Chromebook",
	"microsoft":  "Microsoft",
	"windows":    "Windows",
	"linkedin":   "LinkedIn",
	"github":     "GitHub",
	"gitlab":     "GitLab",
	"chatgpt":    "ChatGPT",
	"openai":     "OpenAI",
	"claude":     "Claude",
	"anthropic":  "Anthropic",
	"amazon":     "Amazon",
	"aws":        "AWS",
	"netflix":    "Netflix",
	"spotify":    "Spotify",
	"tesla":      "Tesla",
	"facebook":   "Facebook",
	"instagram":  "Instagram",
	"tiktok":     "TikTok",
	"whatsapp":   "WhatsApp",
	"snapchat":   "Snapchat",
	"twitter":    "Twitter",
	"uber":       "Uber",
	"airbnb":     "Airbnb",
	"slack":      "Slack",
	"zoom":       "Zoom",
	"docker":     "Docker",
	"kubernetes": "Kubernetes",
	"python":     "Python",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"postgres":   "Postgres",
	"postgresql": "PostgreSQL",
	"mongodb":    "MongoDB",
	"redis":      "Redis",
	"pytorch":    "PyTorch",
	"tensorflow": "TensorFlow",
	"numpy":      "NumPy",
	"pandas":     "Pandas",
	"react":      "React",
	"nodejs":     "Node.js",
	"node.js":    "Node.js",
	"vue":        "Vue",
	"angular":    "Angular",
	"django":     "Django",
	"flask":      "Flask",
	"wordpress":  "WordPress",
	"shopify":    "Shopify",
	"photoshop":  "Photoshop",
	"figma":      "Figma",
	"notion":     "Notion",
	"trello":     "Trello",
	"jira":       "Jira",
	"asana":      "Asana",
	"safari":     "Safari",
	"firefox":    "Firefox",
	"chrome":     "Chrome",
	"bluetooth":  "Bluetooth",
	"wifi":       "Wi-Fi",
	"wi-fi":      "Wi-Fi",
	"usb":        "USB",
	"api":        "API",
	"sql":        "SQL",
	"html":       "HTML",
	"css":        "CSS",
	"json":       "JSON",
	"xml":        "XML",
	"http":       "HTTP",
	"https":      "HTTPS",
	"url":        "URL",
	"pdf":        "PDF",
	"jpeg":       "JPEG",
	"png":        "PNG",
	"gif":        "GIF",
	"svg":        "SVG",
	"nasa":       "NASA",
	"fbi":        "FBI",
	"cia":        "CIA",
	"nfl":        "NFL",
	"nba":        "NBA",
	"mlb":        "MLB",
	"nhl":        "NHL",
	"usa":        "USA",
	"uk":         "UK",
	"eu":         "EU",
	"un":         "UN",
}

var countriesAndCities = []string{
	"Afghanistan", "Albania", "Algeria", "Argentina", "Armenia", "Australia",
	"Austria", "Azerbaijan", "Bangladesh", "Belgium", "Bolivia", "Brazil",
	"Bulgaria", "Cambodia", "Canada", "Chile", "China", "Colombia",
	"Croatia", "Cuba", "Cyprus", "Denmark", "Ecuador", "Egypt", "England",
	"Estonia", "Ethiopia", "Finland", "France", "Georgia", "Germany",
	"Ghana", "Greece", "Guatemala", "Hungary", "Iceland", "India",
	"Indonesia", "Iran", "Iraq", "Ireland", "Israel", "Italy", "Jamaica",
	"Japan", "Jordan", "Kazakhstan", "Kenya", "Korea", "Kuwait",
	"Latvia", "Lebanon", "Libya", "Lithuania", "Luxembourg", "Malaysia",
	"Mexico", "Mongolia", "Morocco", "Nepal", "Netherlands", "Nigeria",
	"Norway", "Oman", "Pakistan", "Panama", "Paraguay", "Peru",
	"Philippines", "Poland", "Portugal", "Qatar", "Romania", "Russia",
	"Scotland", "Singapore", "Slovakia", "Slovenia", "Somalia",
	"Spain", "Sweden", "Switzerland", "Syria", "Taiwan", "Thailand",
	"Turkey", "Uganda", "Ukraine", "Uruguay", "Uzbekistan", "Venezuela",
	"Vietnam", "Wales", "Yemen", "Zimbabwe",
	"Africa", "Antarctica", "Asia", "Europe", "Oceania",
	"London", "Paris", "Tokyo", "Berlin", "Madrid", "Rome", "Beijing",
	"Shanghai", "Mumbai", "Delhi", "Bangkok", "Seoul", "Sydney",
	"Melbourne", "Toronto", "Vancouver", "Montreal", "Chicago",
	"Boston", "Seattle", "Denver", "Austin", "Dallas", "Houston",
	"Phoenix", "Atlanta", "Miami", "Orlando", "Portland", "Detroit",
	"Minneapolis", "Philadelphia", "Pittsburgh", "Baltimore", "Nashville",
	"Charlotte", "Raleigh", "Indianapolis", "Columbus", "Cleveland",
	"Cincinnati", "Milwaukee", "Sacramento", "Brooklyn", "Manhattan",
	"Dublin", "Edinburgh", "Amsterdam", "Brussels", "Vienna", "Prague",
	"Warsaw", "Budapest", "Copenhagen", "Stockholm", "Oslo", "Helsinki",
	"Lisbon", "Barcelona", "Munich", "Hamburg", "Milan", "Naples",
	"Istanbul", "Cairo", "Lagos", "Nairobi", "Johannesburg", "Dubai",
	"Singapore", "Taipei", "Osaka", "Kyoto", "Auckland", "Wellington",
	"Honolulu", "Alaska", "Hawaii", "California", "Texas", "Florida",
	"Massachusetts", "Connecticut", "Colorado", "Virginia", "Maryland",
	"Georgia", "Tennessee", "Carolina", "Illinois", "Michigan",
	"Minnesota", "Wisconsin", "Missouri", "Oregon", "Washington",
	"Arizona", "Nevada", "Utah", "Montana", "Idaho",
	"Mississippi", "Alabama", "Louisiana", "Kentucky", "Arkansas",
	"Oklahoma", "Kansas", "Nebraska", "Iowa",
	"New York", "Los Angeles", "San Francisco", "San Diego",
	"San Antonio", "San Jose", "Las Vegas", "New Orleans",
	"Salt Lake City", "Kansas City", "Oklahoma City", "New Jersey",
	"New Mexico", "New Hampshire", "Rhode Island", "South Dakota",
	"North Dakota", "South Carolina", "North Carolina", "West Virginia",
}
