package paystack

// Config holds Paystack API settings sourced from the environment.
type Config struct {
	SecretKey   string `env:"PAYSTACK_SECRET_KEY,required"`                            // SecretKey authenticates API calls and signs webhooks.
	BaseURL     string `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`  // BaseURL is the API root; overridable for tests.
	CallbackURL string `env:"PAYSTACK_CALLBACK_URL,required"`                          // CallbackURL is where hosted checkout redirects the browser.
}
