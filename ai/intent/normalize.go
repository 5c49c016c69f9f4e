package intent

import "strings"

// t2s maps traditional characters that show up in household instructions to their simplified form.
// No value is also a key, which keeps ToSimplified idempotent.
var t2s = map[rune]rune{
	'書': '书', '櫃': '柜', '廳': '厅', '間': '间', '陽': '阳', '臺': '台',
	'衛': '卫', '廚': '厨', '臥': '卧', '層': '层', '幫': '帮', '東': '东',
	'記': '记', '錄': '录', '備': '备', '裡': '里', '裏': '里', '雜': '杂',
	'櫥': '橱', '電': '电', '視': '视', '頭': '头', '動': '动', '點': '点',
	'號': '号', '個': '个', '兩': '两', '內': '内', '褲': '裤', '這': '这',
	'對': '对', '應': '应', '進': '进', '從': '从', '們': '们', '還': '还',
	'與': '与', '機': '机', '開': '开', '關': '关', '紙': '纸', '濕': '湿',
	'買': '买', '賣': '卖', '請': '请', '讓': '让', '說': '说', '話': '话',
	'見': '见', '現': '现', '發': '发', '問': '问', '題': '题', '經': '经',
	'過': '过', '時': '时', '區': '区', '處': '处', '網': '网', '絡': '络',
	'線': '线', '連': '连', '總': '总', '積': '积', '納': '纳', '導': '导',
	'團': '团', '設': '设', '當': '当', '變': '变', '換': '换', '僅': '仅',
	'縣': '县', '樓': '楼', '報': '报', '刪': '删', '將': '将', '藥': '药',
	'筆': '笔', '鍋': '锅', '襪': '袜', '圍': '围', '著': '着',
}

// ToSimplified converts traditional characters to simplified ones, one rune at a time.
// Runes outside the table pass through unchanged.
func ToSimplified(text string) string {
	return strings.Map(func(r rune) rune {
		if s, ok := t2s[r]; ok {
			return s
		}
		return r
	}, text)
}
