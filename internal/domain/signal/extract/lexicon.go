package extract

// Word lists are matched against lower-cased tokens.
var (
	hypeWords = wordSet(
		"amazing", "awesome", "best", "ever", "incredible", "perfect", "fantastic",
		"unbelievable", "greatest", "wow", "miracle", "insane", "guaranteed",
		"flawless", "outstanding", "superb", "ultimate", "omg", "lifechanging",
		"phenomenal", "spectacular", "magical",
	)

	callToActionWords = wordSet(
		"buy", "click", "order", "now", "visit", "subscribe", "link", "call",
		"discount", "free", "deal", "promo", "code", "hurry", "limited", "offer",
		"shop", "sale", "checkout", "dm", "coupon", "www", "http", "https",
	)

	firstPersonWords = wordSet(
		"i", "me", "my", "mine", "myself", "we", "our", "ours", "us",
	)

	specificityWords = wordSet(
		"product", "shipping", "shipped", "delivery", "delivered", "arrived",
		"package", "packaging", "quality", "size", "fit", "fits", "color",
		"price", "described", "description", "battery", "material", "fabric",
		"works", "worked", "install", "installed", "setup", "instructions",
		"return", "returned", "week", "weeks", "month", "months", "days",
		"seller", "box", "smaller", "larger", "cheaper", "sturdy", "comfortable",
	)
)

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
