package cycle

// FunctionalDetails holds the lifestyle guidance attached to a
// functional phase: how to eat, when to fast, what to do.
type FunctionalDetails struct {
	DietaryStyle    string
	FastingProtocol string
	Foods           []string
	Activities      []string
	Supplements     []string
}

// PhaseDetails combines the traditional phase's symptom profile with
// the functional phase's lifestyle guidance for a given cycle day.
type PhaseDetails struct {
	FunctionalDetails
	TypicalSymptoms []string
}

var traditionalSymptoms = map[TraditionalPhase][]string{
	Menstruation: {
		"Cramping and uterine contractions",
		"Lower back and abdominal pain",
		"Fatigue and low energy",
		"Headaches or migraines",
		"Changes in appetite",
		"Mood fluctuations",
	},
	Follicular: {
		"Increased energy levels",
		"Enhanced mood and optimism",
		"Better cognitive function",
		"Increased creativity",
		"Higher motivation",
		"Decreased PMS symptoms",
	},
	Ovulation: {
		"Mild pelvic pain or cramping",
		"Changes in cervical mucus",
		"Increased sex drive",
		"Breast tenderness",
		"Heightened energy levels",
		"Improved mood and confidence",
	},
	Luteal: {
		"Premenstrual symptoms (PMS)",
		"Mood changes and irritability",
		"Breast tenderness and swelling",
		"Fatigue and decreased energy",
		"Food cravings",
		"Bloating and water retention",
	},
}

// traditionalActivities are the per-traditional-phase activity
// suggestions surfaced in the weekly plan rendering.
var traditionalActivities = map[TraditionalPhase][]string{
	Menstruation: {
		"Rest and self-care",
		"Light exercise like walking or yoga",
		"Iron-rich foods",
		"Warm compress for cramps",
	},
	Follicular: {
		"High-intensity workouts",
		"Start new projects",
		"Social activities",
		"Learning new skills",
	},
	Ovulation: {
		"Challenging workouts",
		"Important presentations/meetings",
		"Social events",
		"Creative activities",
	},
	Luteal: {
		"Moderate exercise",
		"Organizational tasks",
		"Meal planning",
		"Relaxation techniques",
	},
}

var functionalDetails = map[FunctionalPhase]FunctionalDetails{
	Power: {
		DietaryStyle:    "Ketobiotic",
		FastingProtocol: "13 to 72 hours as tolerated (16:8, 24h, OMAD)",
		Foods: []string{
			"Healthy fats: avocado, olive oil, coconut oil, ghee",
			"Clean proteins: fish, eggs, tofu, organic chicken",
			"Cruciferous vegetables: broccoli, Brussels sprouts, kale",
			"Prebiotics: garlic, onion, leek, dandelion root",
			"Seeds: flax, chia, pumpkin, sunflower, sesame",
			"Natural probiotics: kimchi, sauerkraut, yogurt, kefir",
			"Estrogen builders: spinach, sprouts, blueberries, strawberries",
		},
		Activities: []string{
			"Low intensity exercise",
			"Gentle yoga",
			"Walking",
			"Rest as needed",
			"Meditation and relaxation practices",
		},
	},
	Manifestation: {
		DietaryStyle:    "Transition from ketobiotic to hormone feasting",
		FastingProtocol: "No more than 15 hours, avoid extended fasts",
		Foods: []string{
			"Root vegetables: beets, carrots, turnips, fennel",
			"Fresh fruits: grapefruit, berries, pineapple, mango, papaya",
			"Cruciferous vegetables: cauliflower, kale, broccoli",
			"Detox foods: fermented pickles, lemon, parsley",
			"Polyphenols: olives, red onion, dark chocolate",
			"Gut support: fermented foods, prebiotic fiber",
			"Soft nuts and seeds: almonds, cashews, Brazil nuts",
		},
		Activities: []string{
			"Moderate to high intensity exercise",
			"Social activities",
			"Creative projects",
			"Important decision making",
			"Networking and communication",
		},
	},
	Nurture: {
		DietaryStyle:    "Extended hormone feasting",
		FastingProtocol: "Avoid fasting, frequent warm meals with complex carbs",
		Foods: []string{
			"Root vegetables: sweet potato, yuca, red potato, butternut squash",
			"Complex carbs: oats, brown rice, quinoa",
			"Magnesium & B6: banana, sunflower seeds, dark chocolate",
			"Comfort fruits: dates, figs, cooked apple",
			"Calming teas: chamomile, ginger root, fennel",
			"Gentle proteins: chicken broth, turkey, soups",
		},
		Activities: []string{
			"Gentle restorative exercise",
			"Relaxing activities",
			"Self-care and rest",
			"Relaxation practices",
			"Time in nature",
		},
		Supplements: []string{
			"Magnesium",
			"Vitamin B6",
			"Omega-3",
			"Probiotics",
		},
	},
}

// DetailsFor returns the combined details for a traditional phase at a
// given cycle day. The functional component is derived from the day so
// that, for example, late follicular days already carry Manifestation
// guidance.
func DetailsFor(traditional TraditionalPhase, cycleDay int) PhaseDetails {
	functional := DetermineFunctionalPhase(cycleDay)
	return PhaseDetails{
		TypicalSymptoms:   traditionalSymptoms[traditional],
		FunctionalDetails: functionalDetails[functional],
	}
}

// FunctionalDetailsFor returns the lifestyle guidance for a functional
// phase directly.
func FunctionalDetailsFor(functional FunctionalPhase) FunctionalDetails {
	return functionalDetails[functional]
}

// ActivitiesFor returns the traditional-phase activity suggestions.
func ActivitiesFor(traditional TraditionalPhase) []string {
	return traditionalActivities[traditional]
}
