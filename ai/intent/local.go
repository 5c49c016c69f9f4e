package intent

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hrygo/homebox/store"
)

// Pre-compiled patterns for the local parser.
var (
	placeVerbRegex     = regexp.MustCompile(`放到|放在|放进|放了|存到|存在|搬到|收到|放着|记录|帮我`)
	furnitureVerbRegex = regexp.MustCompile(`添加|新增|创建|加个|加一|加两|加三|加入`)
	deleteVerbRegex    = regexp.MustCompile(`删除|移除|去掉|删掉|移掉|扔掉`)

	// Compound: "添加/加入 <container>，把 <items> 放到 ..."
	compoundContainerRegex = regexp.MustCompile(`(?:添加|新增|创建|加入|加个|加)\s*[\-—]?\s*([^,，。、帮把]+?)(?:，|,|帮|把|$)`)
	compoundItemsRegex     = regexp.MustCompile(`(?:把|将)\s*(.+?)\s*(?:放到|放在|放进|存到|收到)`)
	storagePrefixRegex     = regexp.MustCompile(`^收纳[\-—]`)

	listSepRegex  = regexp.MustCompile(`[和以及、，,。；;！!？?\s]+`)
	placeSepRegex = regexp.MustCompile(`[\s、，,。；;！!？?]+`)

	deleteNoiseRegex    = regexp.MustCompile(`删除|移除|去掉|删掉|移掉|扔掉|把|的|了|帮我|从|里`)
	placeNoiseRegex     = regexp.MustCompile(`(?:放到了|放在了|放进了|放到|放在|放进|存到了|存到|搬到了|搬到|收到了|收到|放着|放了|有|存着|装着|里面是|帮我|记录|加入|添加|以及|的|里|中|了|在|和|上|下|面|中间)+`)
	furnitureNoiseRegex = regexp.MustCompile(`添加|新增|创建|加入|加个|加|在|个|件`)

	digitCountRegex   = regexp.MustCompile(`(\d+)\s*个`)
	countPhraseRegex  = regexp.MustCompile(`(?:\d+|[一两二三四五六])\s*[个件]`)
	leadingCountRegex = regexp.MustCompile(`^(?:\d+|[一两二三四五六])\s*[个件]`)
)

const (
	maxItemNameLen      = 15
	maxFurnitureNameLen = 10
	maxFurnitureCopies  = 20
)

// cnNumerals maps Chinese numerals to counts, checked in order.
var cnNumerals = []struct {
	word  string
	count int
}{
	{"一", 1}, {"两", 2}, {"二", 2}, {"三", 3}, {"四", 4}, {"五", 5}, {"六", 6},
}

// itemCategories maps name keywords to categories. The first keyword found in a name wins.
var itemCategories = []struct {
	keyword  string
	category store.Category
}{
	{"衣", store.CategoryClothing},
	{"裤", store.CategoryClothing},
	{"鞋", store.CategoryClothing},
	{"袜", store.CategoryClothing},
	{"帽", store.CategoryClothing},
	{"外套", store.CategoryClothing},
	{"雨衣", store.CategoryClothing},
	{"围巾", store.CategoryClothing},
	{"内衣", store.CategoryClothing},
	{"书", store.CategoryBooks},
	{"笔", store.CategoryBooks},
	{"手机", store.CategoryElectronics},
	{"充电", store.CategoryElectronics},
	{"耳机", store.CategoryElectronics},
	{"电脑", store.CategoryElectronics},
	{"碗", store.CategoryKitchen},
	{"筷", store.CategoryKitchen},
	{"锅", store.CategoryKitchen},
	{"药", store.CategoryMedicine},
	{"创可贴", store.CategoryMedicine},
}

// GuessCategory guesses an item category from its name, defaulting to CategoryOther.
func GuessCategory(name string) store.Category {
	for _, c := range itemCategories {
		if strings.Contains(name, c.keyword) {
			return c.category
		}
	}
	return store.CategoryOther
}

// ContainerTypeFor infers a container kind from cues in its name.
func ContainerTypeFor(name string) store.LocationKind {
	switch {
	case strings.Contains(name, "衣柜"), strings.Contains(name, "衣橱"):
		return store.LocationKindWardrobe
	case strings.Contains(name, "书架"), strings.Contains(name, "架"):
		return store.LocationKindShelf
	case strings.Contains(name, "抽屉"):
		return store.LocationKindDrawer
	case strings.Contains(name, "盒"), strings.Contains(name, "箱"):
		return store.LocationKindBox
	default:
		return store.LocationKindCabinet
	}
}

// ParseLocal is the rule-based parser used when the remote parser returns nothing.
// It reads the location snapshot only and returns an empty list when no intent is found.
func ParseLocal(text string, locations []*store.Location) Actions {
	isPlace := placeVerbRegex.MatchString(text)
	isFurniture := furnitureVerbRegex.MatchString(text)
	isDelete := deleteVerbRegex.MatchString(text)

	if !isPlace && !isFurniture && !isDelete {
		return nil
	}

	if isPlace && isFurniture {
		if actions := parseCompound(text, locations); len(actions) > 0 {
			slog.Debug("intent: local compound", "count", len(actions))
			return actions
		}
	}

	matched := FindAllLocations(text, locations)
	best := FindBestLocation(text, locations)

	if isDelete && best != nil {
		if actions := parseDelete(text, matched, best); len(actions) > 0 {
			slog.Debug("intent: local delete_item", "count", len(actions))
			return actions
		}
	}

	if isPlace && best != nil {
		if actions := parsePlace(text, matched, best); len(actions) > 0 {
			slog.Debug("intent: local add_item", "count", len(actions))
			return actions
		}
	}

	if isFurniture {
		if actions := parseFurniture(text, locations); len(actions) > 0 {
			slog.Debug("intent: local add_cabinet", "count", len(actions))
			return actions
		}
	}

	return nil
}

// parseCompound handles "create a container and put items into it" in one sentence.
func parseCompound(text string, locations []*store.Location) Actions {
	containerMatch := compoundContainerRegex.FindStringSubmatch(text)
	itemsMatch := compoundItemsRegex.FindStringSubmatch(text)
	if containerMatch == nil || itemsMatch == nil {
		return nil
	}

	raw := strings.TrimSpace(containerMatch[1])
	name := strings.TrimSpace(storagePrefixRegex.ReplaceAllString(raw, ""))
	name = strings.TrimSpace(leadingCountRegex.ReplaceAllString(name, ""))
	if name == "" {
		name = raw
	}

	actions := Actions{AddCabinet{
		Name:       name,
		Type:       ContainerTypeFor(name),
		ParentRoom: firstRoomIn(text, locations),
	}}
	for _, itemName := range splitNames(listSepRegex, strings.TrimSpace(itemsMatch[1]), maxItemNameLen) {
		actions = append(actions, AddItem{
			Name:         itemName,
			Category:     GuessCategory(itemName),
			Quantity:     1,
			LocationName: name,
		})
	}
	return actions
}

func parseDelete(text string, matched []*store.Location, best *store.Location) Actions {
	remaining := stripLocations(text, matched)
	remaining = strings.TrimSpace(deleteNoiseRegex.ReplaceAllString(remaining, ""))

	var actions Actions
	for _, name := range splitNames(listSepRegex, remaining, 0) {
		actions = append(actions, DeleteItem{Name: name, LocationName: best.Name})
	}
	return actions
}

func parsePlace(text string, matched []*store.Location, best *store.Location) Actions {
	remaining := stripLocations(text, matched)
	remaining = strings.TrimSpace(placeNoiseRegex.ReplaceAllString(remaining, " "))

	var actions Actions
	for _, name := range splitNames(placeSepRegex, remaining, maxItemNameLen) {
		actions = append(actions, AddItem{
			Name:         name,
			Category:     GuessCategory(name),
			Quantity:     1,
			LocationName: best.Name,
		})
	}
	return actions
}

// parseFurniture handles "add N <furniture> (in <room>)". Every candidate name gets
// quantity numbered copies when the quantity is above one.
func parseFurniture(text string, locations []*store.Location) Actions {
	room := firstRoomIn(text, locations)
	qty := furnitureQuantity(text)

	remaining := text
	for _, l := range locations {
		if l != nil && l.Kind.IsRoom() && l.Name != "" {
			remaining = strings.Replace(remaining, l.Name, "", 1)
		}
	}
	remaining = countPhraseRegex.ReplaceAllString(remaining, "")
	remaining = strings.TrimSpace(furnitureNoiseRegex.ReplaceAllString(remaining, ""))

	var actions Actions
	for _, name := range splitNames(listSepRegex, remaining, maxFurnitureNameLen) {
		kind := ContainerTypeFor(name)
		for i := 1; i <= qty; i++ {
			n := name
			if qty > 1 {
				n = name + strconv.Itoa(i)
			}
			actions = append(actions, AddCabinet{Name: n, Type: kind, ParentRoom: room})
		}
	}
	return actions
}

func furnitureQuantity(text string) int {
	qty := 1
	if m := digitCountRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			qty = n
		}
	} else {
		for _, cn := range cnNumerals {
			if strings.Contains(text, cn.word+"个") || strings.Contains(text, cn.word+"件") {
				qty = cn.count
				break
			}
		}
	}
	return min(qty, maxFurnitureCopies)
}

// stripLocations removes the first occurrence of every matched location name.
func stripLocations(text string, matched []*store.Location) string {
	for _, l := range matched {
		text = strings.Replace(text, l.Name, "", 1)
	}
	return text
}

// splitNames splits s on sep and keeps non-empty tokens of at most maxLen runes (0 means no limit).
func splitNames(sep *regexp.Regexp, s string, maxLen int) []string {
	var names []string
	for _, part := range sep.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if maxLen > 0 && utf8.RuneCountInString(part) > maxLen {
			continue
		}
		names = append(names, part)
	}
	return names
}
