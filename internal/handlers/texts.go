package handlers

const (
	textWelcome = "👋 Вітаю! Я сучасний Telegram-бот з покращеною системою планування, нагадуваннями та конвертером валют!\n\n💡 Меню залишається доступним для зручності навігації."

	textHelp = "📋 Допомога:\n\n/start - Головне меню\n/menu - Оновити меню\n/clear - Очистити чат\n/help - Ця довідка\n/info - Інформація про бота"

	textInfo = "ℹ️ Інформація:\n\n🤖 Версія: 4.0.0\n💻 Технології: Go, SQLite\n🗄️ База даних: Покращена система з міграціями\n⏰ Нагадування: Автоматичні повідомлення\n💱 Конвертер: Реальні курси від НБУ\n🧹 Чат: Автоматичне очищення при нових сесіях"

	textPlanMenu = "📝 План на завтра:\n\n💡 Оберіть дію:\n\n➕ Додати план - створити новий план\n👁️ Подивитися план - переглянути поточний план\n📋 Історія планів - переглянути всі плани"

	textEnterPlan = "📝 Введіть ваш план на завтра:\n\n💡 Наприклад: \"Зробити зарядку, прочитати книгу, подзвонити мамі\"\n\n💡 Ви можете написати кілька пунктів, розділивши їх комами або новими рядками."

	textConverterMenu = "💱 Конвертер валют:\n\n💡 Оберіть дію:\n\n💱 Конвертувати валюту - конвертувати будь-яку суму\n⚡ Швидка конвертація - популярні суми\n📊 Курси валют - подивитися поточні курси\n🔄 Оновити курси - оновити курси від НБУ"

	textEnterAmount = "💱 Конвертація валют:\n\n💰 Введіть суму для конвертації:\n\n💡 Наприклад: 100"

	textEnterAmountForRates = "💰 Введіть суму для перегляду курсів:\n\n💡 Наприклад: 100, 1000, 50.5\n\n💱 Курси будуть показані відносно USD"

	textQuickConvert = "⚡ Швидка конвертація:\n\n💡 Оберіть популярну суму для конвертації:"

	textSelectBaseCurrency = "🏦 Оберіть базову валюту для курсів:\n\n💡 Курси будуть показані відносно обраної валюти"

	textEnterReminderTime = "🕐 Введіть час нагадування у форматі HH:MM (наприклад, 07:00):\n\n💡 Нагадування буде відправлятися щодня о вказаний час."

	textSelectReminderDate = "📅 Оберіть дату для нагадування:\n\n💡 Виберіть дату, коли хочете отримати нагадування."

	textSomethingWrong = "❌ Щось пішло не так. Спробуйте ще раз."

	// validation re-prompts
	textPlanEmpty       = "❌ План не може бути порожнім. Спробуйте ще раз."
	textPlanTooLong     = "❌ План занадто довгий. Максимум 1000 символів."
	textBadTime         = "❌ Неправильний формат часу! Використовуйте формат HH:MM (наприклад, 07:00)"
	textBadAmount       = "❌ Неправильна сума! Введіть додатне число."
	textAmountTooBig    = "❌ Сума занадто велика! Максимум 1,000,000."
	textReminderEmpty   = "❌ Текст нагадування не може бути порожнім. Спробуйте ще раз."
	textReminderTooLong = "❌ Текст нагадування занадто довгий. Максимум 500 символів."
)
