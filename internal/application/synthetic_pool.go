package application

var defaultSyntheticMessages = []string{
	"Just finished a 50 minute block. Water break, then back at it.",
	"Deep in a refactor. Wish me luck.",
	"Starting my first session of the day!",
	"Anyone else fighting a wall of emails right now?",
	"Two pomodoros down, two to go.",
	"Reading papers for my thesis. Slow but steady.",
	"Finally fixed that bug from yesterday.",
	"Coffee refilled. Phone in the other room.",
	"Working on a cover letter, send good vibes.",
	"Studying for exams, chapter 6 of 12.",
	"Small progress is still progress.",
	"Took a walk, feeling much clearer now.",
	"Writing the intro is always the hardest part.",
	"Back from lunch, picking up where I left off.",
	"Nice to see so many people focusing today.",
	"Cleared my inbox to zero. Rare moment.",
	"Sketching wireframes for a side project.",
	"Practicing scales for an hour, fingers are tired.",
	"Last stretch before the deadline tonight.",
	"Going to try a longer session this time.",
	"Quiet music on, notifications off.",
	"Learning Go concurrency today, channels are fun.",
	"Grading papers. Halfway there.",
	"Good luck everyone, you've got this.",
}

var defaultSyntheticNames = []string{
	"Alex",
	"Sam",
	"Jordan",
	"Riley",
	"Casey",
	"Morgan",
	"Taylor",
	"Jamie",
	"Quinn",
	"Avery",
	"Rowan",
	"Emery",
}
