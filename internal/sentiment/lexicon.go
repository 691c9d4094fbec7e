package sentiment

// lexicon maps lowercase tokens to AFINN-style valences in [-5, 5]. The list
// skews toward vocabulary seen in commit messages, issue threads, and
// short-form posts, since those are the ingested sources.
var lexicon = map[string]float64{
	// strongly positive
	"outstanding":   5,
	"superb":        5,
	"breathtaking":  5,
	"amazing":       4,
	"awesome":       4,
	"excellent":     4,
	"fantastic":     4,
	"wonderful":     4,
	"brilliant":     4,
	"incredible":    4,
	"thrilled":      4,
	"delighted":     3,
	"excited":       3,
	"great":         3,
	"love":          3,
	"loved":         3,
	"perfect":       3,
	"impressive":    3,
	"beautiful":     3,
	"happy":         3,
	"huge":          1,
	"win":           4,
	"wins":          4,
	"winning":       4,
	"winner":        4,
	"success":       2,
	"successful":    2,
	"growth":        2,
	"growing":       2,
	"improved":      2,
	"improvement":   2,
	"improving":     2,
	"good":          3,
	"nice":          3,
	"solid":         2,
	"stable":        2,
	"clean":         2,
	"faster":        2,
	"fast":          1,
	"fixed":         2,
	"fix":           1,
	"fixes":         1,
	"resolved":      2,
	"ship":          1,
	"shipped":       2,
	"launch":        1,
	"launched":      2,
	"milestone":     2,
	"progress":      2,
	"promising":     2,
	"interested":    2,
	"interesting":   2,
	"helpful":       2,
	"thanks":        2,
	"thank":         2,
	"congrats":      3,
	"welcome":       2,
	"agree":         1,
	"agreed":        1,
	"ready":         1,
	"works":         1,
	"working":       1,
	"ok":            1,
	"okay":          1,
	"yes":           1,
	"upgrade":       1,
	"upgraded":      1,
	"boost":         1,
	"gain":          2,
	"gains":         2,
	"funded":        2,
	"funding":       1,
	"profitable":    2,
	"opportunity":   2,
	"opportunities": 2,

	// strongly negative
	"catastrophic":  -5,
	"disaster":      -4,
	"disastrous":    -4,
	"terrible":      -3,
	"horrible":      -3,
	"awful":         -3,
	"bad":           -3,
	"worst":         -3,
	"hate":          -3,
	"hated":         -3,
	"angry":         -3,
	"furious":       -4,
	"broken":        -2,
	"breaks":        -2,
	"breaking":      -1,
	"bug":           -2,
	"bugs":          -2,
	"buggy":         -3,
	"crash":         -2,
	"crashes":       -2,
	"crashed":       -2,
	"fail":          -2,
	"fails":         -2,
	"failed":        -2,
	"failing":       -2,
	"failure":       -2,
	"error":         -2,
	"errors":        -2,
	"regression":    -2,
	"blocked":       -1,
	"blocker":       -2,
	"critical":      -2,
	"severe":        -2,
	"slow":          -2,
	"slower":        -2,
	"unstable":      -2,
	"flaky":         -2,
	"wrong":         -2,
	"problem":       -2,
	"problems":      -2,
	"issue":         -1,
	"issues":        -1,
	"concern":       -2,
	"concerned":     -2,
	"concerns":      -2,
	"worried":       -3,
	"worry":         -3,
	"risk":          -2,
	"risky":         -2,
	"doubt":         -1,
	"doubts":        -1,
	"delayed":       -1,
	"delay":         -1,
	"delays":        -1,
	"stuck":         -2,
	"lost":          -3,
	"loss":          -3,
	"losses":        -3,
	"losing":        -3,
	"churn":         -1,
	"cancel":        -1,
	"cancelled":     -1,
	"canceled":      -1,
	"refund":        -2,
	"downgrade":     -2,
	"downgraded":    -2,
	"dead":          -3,
	"dying":         -3,
	"abandon":       -2,
	"abandoned":     -2,
	"deprecated":    -1,
	"no":            -1,
	"not":           -1,
	"never":         -1,
	"unfortunately": -2,
	"sorry":         -1,
	"disappointed":  -2,
	"disappointing": -2,
	"frustrated":    -2,
	"frustrating":   -2,
	"confusing":     -2,
	"confused":      -2,
	"mess":          -2,
	"messy":         -2,
	"ugly":          -3,
	"hack":          -1,
	"hacky":         -2,
	"leak":          -2,
	"leaks":         -2,
	"outage":        -3,
	"downtime":      -2,
	"vulnerability": -2,
	"insecure":      -2,
	"scam":          -4,
	"fraud":         -4,
	"lawsuit":       -3,
	"layoffs":       -3,
	"bankrupt":      -4,
	"bankruptcy":    -4,
}
