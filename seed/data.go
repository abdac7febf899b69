// Package seed populates the database with a realistic development
// dataset: the part taxonomy, the Indian bike market make/model list,
// vendor and buyer accounts, listings and a spread of orders.
package seed

import "vparts/models"

var bikeMakes = []string{
	"Honda", "Bajaj", "TVS", "Yamaha", "Suzuki", "KTM", "Royal Enfield", "Hero",
}

var bikeModelsByMake = map[string][]string{
	"Honda":         {"CB350", "CB200X", "CBR150R", "Activa 6G", "Dio", "Shine", "Unicorn"},
	"Bajaj":         {"Pulsar 200", "Pulsar 250", "Dominar 400", "Platina", "CT100", "Avenger"},
	"TVS":           {"Apache RTR 160", "Apache RTR 200", "Jupiter", "NTORQ", "Star City"},
	"Yamaha":        {"MT-15", "R15 V4", "FZ-S", "Fascino", "Ray ZR"},
	"Suzuki":        {"Gixxer 250", "Gixxer SF", "Access 125", "Burgman Street"},
	"KTM":           {"Duke 200", "Duke 390", "RC 200", "RC 390", "Adventure 390"},
	"Royal Enfield": {"Classic 350", "Bullet 350", "Himalayan", "Interceptor 650", "Meteor 350"},
	"Hero":          {"Splendor Plus", "HF Deluxe", "Passion Pro", "Xtreme 200R", "Destini 125"},
}

var partCategories = []models.Category{
	{CategoryID: "engine", Name: "Engine Parts", Subcategories: []string{
		"Pistons & Rings", "Cylinder Head", "Crankshaft", "Connecting Rod",
		"Engine Block", "Gaskets & Seals", "Oil Pump", "Water Pump",
	}},
	{CategoryID: "brakes", Name: "Brake System", Subcategories: []string{
		"Brake Pads", "Brake Discs", "Brake Shoes", "Master Cylinder",
		"Brake Lines", "Brake Fluid", "Calipers", "Brake Levers",
	}},
	{CategoryID: "suspension", Name: "Suspension", Subcategories: []string{
		"Front Forks", "Rear Shock", "Springs", "Bushings",
		"Swing Arm", "Steering Head", "Linkages",
	}},
	{CategoryID: "electrical", Name: "Electrical System", Subcategories: []string{
		"Battery", "Starter Motor", "Alternator", "Ignition Coil",
		"Spark Plugs", "Wiring Harness", "Lights", "Switches",
	}},
	{CategoryID: "transmission", Name: "Transmission", Subcategories: []string{
		"Clutch Plates", "Gear Box", "Chain & Sprockets", "Drive Belt",
		"Clutch Cable", "Gear Shifter", "CVT Parts",
	}},
	{CategoryID: "body", Name: "Body & Frame", Subcategories: []string{
		"Fairings", "Fuel Tank", "Seat", "Mirrors", "Handlebars",
		"Footpegs", "Mudguards", "Side Panels",
	}},
	{CategoryID: "wheels", Name: "Wheels & Tires", Subcategories: []string{
		"Front Wheel", "Rear Wheel", "Tires", "Tubes", "Wheel Bearings",
		"Spokes", "Rims", "Valve Stems",
	}},
	{CategoryID: "accessories", Name: "Accessories", Subcategories: []string{
		"Helmets", "Gloves", "Covers", "Phone Mounts", "Luggage",
		"Crash Guards", "Horns", "Grips",
	}},
}

var partAdjectives = []string{
	"Premium", "Heavy Duty", "OEM Quality", "High Performance", "Genuine",
}

var vendorOwners = []string{
	"Sharma", "Kumar", "Singh", "Patel", "Shah", "Gupta", "Agarwal", "Verma",
}

var vendorTypes = []string{
	"Motors", "Auto Parts", "Bike Spares", "Two Wheeler Parts", "Motorcycle Accessories",
}

var reviewComments = []string{
	"Fits perfectly, exactly as described.",
	"Good quality for the price. Delivery was quick.",
	"Genuine part, matched the OEM one I replaced.",
	"Decent product but packaging could be better.",
	"Working fine after two months of daily use.",
}

var chatOpeners = []string{
	"Is this compatible with the 2019 model?",
	"Do you have this in stock for immediate dispatch?",
	"Can you share more photos of the actual part?",
	"Is this a genuine OEM part or aftermarket?",
}

var chatReplies = []string{
	"Yes, it fits all variants from 2017 onwards.",
	"In stock, ships same day if ordered before 4pm.",
	"Sure, sending photos shortly.",
	"Genuine OEM, comes with the manufacturer hologram.",
}

var seedCities = []struct {
	City       string
	State      string
	PostalCode string
}{
	{"Mumbai", "Maharashtra", "400001"},
	{"Pune", "Maharashtra", "411001"},
	{"Delhi", "Delhi", "110001"},
	{"Bengaluru", "Karnataka", "560001"},
	{"Chennai", "Tamil Nadu", "600001"},
	{"Hyderabad", "Telangana", "500001"},
	{"Ahmedabad", "Gujarat", "380001"},
	{"Jaipur", "Rajasthan", "302001"},
}
