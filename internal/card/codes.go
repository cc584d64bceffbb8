package card

import "strings"

// Localized spellings of rarities, factions and card types map to small
// integer codes so a Chinese filter can match an English catalog and vice
// versa. Unknown values normalize to -1 and never match anything.

var rarityCodes = map[string]int{
	"bronze": 0, "ブロンズレア": 0, "ブロンズ": 0, "青铜": 0, "青銅": 0, "铜": 0, "銅": 0,
	"silver": 1, "シルバーレア": 1, "シルバー": 1, "白银": 1, "白銀": 1, "银": 1, "銀": 1,
	"gold": 2, "ゴールドレア": 2, "ゴールド": 2, "黄金": 2, "金": 2,
	"legendary": 3, "レジェンド": 3, "传说": 3, "傳說": 3, "虹": 3,
}

var factionCodes = map[string]int{
	"neutral": 0, "ニュートラル": 0, "中立": 0,
	"forestcraft": 1, "エルフ": 1, "精灵": 1, "精靈": 1, "妖精": 1, "妖": 1,
	"swordcraft": 2, "ロイヤル": 2, "皇家护卫": 2, "皇家護衛": 2, "皇室护卫": 2, "皇家": 2, "皇室": 2, "皇": 2,
	"runecraft": 3, "ウィッチ": 3, "法师": 3, "法": 3, "巫师": 3, "巫師": 3,
	"dragoncraft": 4, "ドラゴン": 4, "龙族": 4, "龍族": 4, "龙": 4, "龍": 4,
	"shadowcraft": 5, "ネクロマンサー": 5, "死灵法师": 5, "死靈法師": 5, "死灵术士": 5, "死灵": 5, "死": 5, "唤灵师": 5,
	"bloodcraft": 6, "ヴァンパイア": 6, "吸血鬼": 6, "鬼": 6, "血族": 6, "暗夜伯爵": 6,
	"havencraft": 7, "ビショップ": 7, "主教": 7, "教": 7,
	"portalcraft": 8, "ネメシス": 8, "复仇者": 8, "復仇者": 8, "超越者": 8, "鱼": 8,
}

var typeCodes = map[string]int{
	"followers": 0, "follower": 0, "フォロワー": 0, "从者": 0, "随从": 0,
	"spells": 1, "spell": 1, "スペル": 1, "法术": 1,
	"amulets": 2, "amulet": 2, "アミュレット": 2, "护符": 2, "魔法阵": 2,
}

// RarityCode normalizes a localized rarity name, tolerating a trailing
// "卡" suffix ("金卡" reads the same as "金").
func RarityCode(rarity string) int {
	r := strings.TrimRight(strings.ToLower(rarity), "卡")
	if code, ok := rarityCodes[r]; ok {
		return code
	}
	return -1
}

func FactionCode(faction string) int {
	if code, ok := factionCodes[strings.ToLower(faction)]; ok {
		return code
	}
	return -1
}

func TypeCode(typ string) int {
	if code, ok := typeCodes[strings.ToLower(typ)]; ok {
		return code
	}
	return -1
}

// codeEqual reports whether two normalized codes match. Two unknowns
// (-1, -1) are not equal.
func codeEqual(a, b int) bool {
	return a >= 0 && b >= 0 && a == b
}
