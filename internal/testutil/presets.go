package testutil

// SentimentMarkup is a small classification task: a text object, a single
// choice group and a free-text comment bound to it.
const SentimentMarkup = `<View>
  <Header value="Rate the review"/>
  <Text name="text" value="$text"/>
  <Choices name="sentiment" toName="text" choice="single">
    <Choice value="Positive" alias="pos"/>
    <Choice value="Negative" alias="neg"/>
    <Choice value="Neutral"/>
  </Choices>
  <View visibleWhen="choice-selected" whenTagName="sentiment" whenChoiceValue="Negative">
    <TextArea name="reason" toName="text" placeholder="Why?"/>
  </View>
</View>`

// SentimentData is the task data SentimentMarkup expects.
func SentimentData() map[string]string {
	return map[string]string{"text": "The plot was thin but the acting carried it."}
}

// WithStandardAnswers adds a saved snapshot for the "sentiment" task.
func (b *Builder) WithStandardAnswers() *Builder {
	return b.
		WithTask("sentiment",
			Choices("sentiment", []string{"neg"}, ToName("text")),
			TextArea("reason", []string{"Thin plot"}, ToName("text"))).
		WithTask("empty")
}
