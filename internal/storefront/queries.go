package storefront

const cartFragment = `
fragment CartFields on Cart {
  id
  checkoutUrl
  lines(first: 50) {
    edges {
      node {
        id
        quantity
        merchandise {
          ... on ProductVariant {
            id
            title
            product {
              title
            }
            image {
              url(transform: { maxWidth: 400, maxHeight: 400 })
              altText
            }
          }
        }
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
      }
    }
  }
  estimatedCost {
    subtotalAmount {
      amount
      currencyCode
    }
    totalAmount {
      amount
      currencyCode
    }
  }
}
`

const cartCreateMutation = `
mutation CartCreate($input: CartInput) {
  cartCreate(input: $input) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const cartQuery = `
query CartQuery($id: ID!) {
  cart(id: $id) {
    ...CartFields
  }
}
` + cartFragment

const cartLinesAddMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const cartLinesUpdateMutation = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const cartLinesRemoveMutation = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const productsQuery = `
query ProductsQuery {
  products(first: 20, sortKey: BEST_SELLING) {
    edges {
      node {
        id
        title
        handle
        featuredImage {
          url(transform: { maxWidth: 400, maxHeight: 400 })
          altText
        }
        priceRange {
          minVariantPrice {
            amount
            currencyCode
          }
        }
      }
    }
  }
}
`

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
  product(handle: $handle) {
    id
    title
    handle
    descriptionHtml
    featuredImage {
      url(transform: { maxWidth: 800, maxHeight: 800 })
      altText
    }
    priceRange {
      minVariantPrice {
        amount
        currencyCode
      }
    }
    variants(first: 10) {
      edges {
        node {
          id
          title
          availableForSale
          price {
            amount
            currencyCode
          }
        }
      }
    }
  }
}
`

const collectionsQuery = `
query CollectionsQuery($first: Int!) {
  collections(first: $first) {
    edges {
      node {
        id
        title
        handle
        description
        image {
          url(transform: { maxWidth: 600, maxHeight: 400 })
          altText
        }
      }
    }
  }
}
`

const shopInfoQuery = `
query ShopInfo {
  shop {
    name
    description
    brand {
      logo {
        image {
          url
        }
      }
    }
    primaryDomain {
      url
    }
    paymentSettings {
      countryCode
      currencyCode
    }
  }
}
`

const pagesQuery = `
query Pages($first: Int!) {
  pages(first: $first) {
    edges {
      node {
        id
        title
        handle
        body
        bodySummary
      }
    }
  }
}
`

const policiesQuery = `
query Policies {
  shop {
    privacyPolicy {
      title
      handle
      body
      url
    }
    refundPolicy {
      title
      handle
      body
      url
    }
    shippingPolicy {
      title
      handle
      body
      url
    }
    termsOfService {
      title
      handle
      body
      url
    }
  }
}
`
