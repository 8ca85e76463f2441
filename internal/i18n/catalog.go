// Package i18n holds the bot's message catalog (English and Arabic) built on
// golang.org/x/text/message.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var arabic = map[string]string{
	MsgWelcome:        "مرحباً! ✨ أحتاج رقم هاتفك فقط عشان نبدأ، وتقدر تعيد العملية في أي وقت من جديد.",
	MsgWelcomeBack:    "أهلاً مرة تانية! 😊 رقم تليفونك محفوظ، تقدر تختار فرقتك وتبعت إيميل جديد في أي وقت.",
	MsgChooseTeam:     "رائع، الآن يمكنك اختيار فرقتك:",
	MsgSharePhone:     "⚠️ نحتاج رقم هاتفك من الزر عشان نكمل التسجيل، يرجى إرساله من هناك.",
	MsgUnknownTeam:    "⚠️ الفرقة غير معروفة، الرجاء المحاولة مرة أخرى.",
	MsgChooseTeamHint: "⚠️ اختار فرقتك من الأزرار اللي فوق.",
	MsgSendEmail:      "✅ ممتاز! الآن أرسل بريدك الإلكتروني، ولو احتجت تعيدها ممكن ترسل إيميل جديد.",
	MsgInvalidEmail:   "⚠️ البريد الإلكتروني غير صالح، تأكد إنك كتبت الشكل name@example.com.",
	MsgProfileMissing: "❌ لم يتم تحميل ملف التعريف الخاص بك، حاول إرسال /start من جديد.",
	MsgTeamMissing:    "⚠️ لم يتم تحديد الفرقة بعد، أرسل /start واخترها مجددًا.",
	MsgGranting:       "⏳ جارٍ إضافة بريدك إلى مجلد الفرقة... لحظات.",
	MsgGranted:        "✅ تمت إضافتك إلى مجلد %s! تقدر تبعت بريد تاني لو حبيت تعيد الصلاحية.",
	MsgAlreadyGranted: "✅ البريد %s عنده صلاحية بالفعل على مجلد %s.",
	MsgUnexpected:     "❌ حصل خطأ غير متوقع أثناء مشاركة المجلد، جرب مرة تانية بعد شوية أو بلغ الأدمن.",
	MsgSendStart:      "أرسل /start عشان تبدأ التسجيل.",

	MsgAccessInstructions: "للوصول للملفات بعد ما أضيفك:\n" +
		"1. افتح تطبيق Google Drive أو ادخل على drive.google.com بنفس البريد اللي أرسلته.\n" +
		"2. من القائمة الجانبية اختار \"الملفات المشتركة\" أو \"Shared with me\".\n" +
		"3. هتلاقي المجلد اللي شاركته معاك، افتحه وتشوف المحتوى.",
	MsgBotRunning: "البوت شغّال ✨\nلو حبيت تجدد الوصول، اكتب /start أو اختار فرقتك وأرسل بريدك.",

	MsgSharePhoneButton: "مشاركة رقم الهاتف",
	MsgOpenFolder:       "افتح المجلد",
	MsgFilePanel:        "لوحة الملفات",
	MsgFilePanelPrompt:  "تقدر تفتح المجلد أو تبص على الملفات من هنا:",
	MsgFilesUnavailable: "⚠️ تعذر جلب الملفات دلوقتي، جرب بعد شوية.",
	MsgNoFiles:          "📁 مفيش ملفات حالياً في المجلد.",
	MsgRecentFiles:      "📂 أحدث الملفات:",

	MsgBadAddress: "الإيميل ده مش موجود أو مش شغال على Google، جرب إيميل تاني.",
	MsgDenied:     "الإيميل ده ما عندهوش صلاحية للوصول أو المجلد مقفل، جرب إيميل تاني.",
	MsgNetwork:    "النت مش ثابت دلوقتي، جرب بعد شوية.",
	MsgGeneric:    "حصل خطأ غير متوقع أثناء مشاركة المجلد، تواصل مع الأدمن لو المشكلة مستمرة.",

	MsgNotAuthorized:      "⛔ غير مصرح لك باستخدام هذا الأمر.",
	MsgNotAuthorizedShort: "⛔ غير مصرح",
	MsgTeamStats:          "إحصائيات الفرق:\n%s\n\nاختر فرقة لعرض البريد الإلكتروني:",
	MsgTeamStatLine:       "• %s: إجمالي أعضاء %d, أعضاء تمت إضافتهم %d",
	MsgNoData:             "لم تصل أي بيانات بعد.",
	MsgNoTeamEmails:       "لا توجد رسائل بريد مسجلة للفرقة %s.",
	MsgTeamEmails:         "بريد الفرقة %s:\n%s\n\nاستخدم تحديد الكل ونسخ إذا رغبت في إضافتها دفعة واحدة.",
	MsgUsersHeader:        "📋 بيانات المستخدمين:",
	MsgNoUsers:            "لا توجد بيانات مستخدمين بعد.",
	MsgNoUsersToNotify:    "لا توجد بيانات مستخدمين للإرسال.",
	MsgBroadcastDone:      "تم إرسال إشعار البداية لـ %d/%d مستخدم.",
	MsgUserLine:           "• %s (%s) | فريق %s | %s | %s | %s",
	MsgNoName:             "بدون اسم",
	MsgNoEmail:            "لم يُدخل",
	MsgNoPhone:            "غير متوفر",
	MsgNoTeam:             "غير محددة",
	MsgShared:             "🌟 تمت المشاركة",
	MsgNotShared:          "⚠️ لم تتم المشاركة",
	MsgExportDone:         "تم رفع ملف التصدير إلى %s (%d مستخدم).",
	MsgExportFailed:       "⚠️ فشل التصدير، راجع سجلات الخادم.",
	MsgExportDisabled:     "التصدير غير مُعد.",
}

// supported lists English first so unmatched locales fall back to it.
var supported = language.NewMatcher([]language.Tag{language.English, language.Arabic})

func newCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, ar := range arabic {
		if err := b.SetString(language.English, key, key); err != nil {
			return nil, fmt.Errorf("catalog en %q: %w", key, err)
		}
		if err := b.SetString(language.Arabic, key, ar); err != nil {
			return nil, fmt.Errorf("catalog ar %q: %w", key, err)
		}
	}
	return b, nil
}

// Translator renders catalog keys for one locale.
type Translator struct {
	p   *message.Printer
	tag language.Tag
}

// New returns a Translator for locale (a BCP 47 tag such as "ar" or "en-US").
// Unknown or unsupported locales fall back to English.
func New(locale string) (*Translator, error) {
	cat, err := newCatalog()
	if err != nil {
		return nil, err
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	matched, _, _ := supported.Match(tag)

	return &Translator{
		p:   message.NewPrinter(matched, message.Catalog(cat)),
		tag: matched,
	}, nil
}

// T formats the message for key with args.
func (t *Translator) T(key string, args ...any) string {
	return t.p.Sprintf(key, args...)
}

func (t *Translator) Tag() language.Tag {
	return t.tag
}
